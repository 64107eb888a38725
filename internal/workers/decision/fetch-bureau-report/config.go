// internal/workers/decision/fetch-bureau-report/config.go
package fetchbureaureport

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
