// internal/workers/decision/send-decision-notification/config.go
package senddecisionnotification

import "time"

type Config struct {
	Timeout      time.Duration
	AWSRegion    string
	SenderEmail  string
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		AWSRegion:    "af-south-1",
		SenderEmail:  "decisions@algolend.example",
		EmailEnabled: true,
		SMSEnabled:   false,
	}
}
