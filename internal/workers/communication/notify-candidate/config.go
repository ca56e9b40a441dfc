// internal/workers/communication/notify-candidate/config.go
package notifycandidate

import "time"

type Config struct {
	EmailEnabled   bool
	SMSEnabled     bool
	FromEmail      string
	AWSRegion      string
	MinScoreForSMS float64
	MaxDigestItems int
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled:   true,
		MinScoreForSMS: 75,
		MaxDigestItems: 5,
		Timeout:        30 * time.Second,
	}
}
