// internal/workers/decision/build-decision-response/config.go
package builddecisionresponse

import "time"

type Config struct {
	Timeout    time.Duration
	AppVersion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		AppVersion: "1.0.0",
	}
}
