// internal/workers/decision/index-decision/config.go
package indexdecision

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "credit-decisions",
	}
}
