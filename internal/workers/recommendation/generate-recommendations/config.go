// internal/workers/recommendation/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	TopN        int
	TopK        int
	MaxListings int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TopN:        5,
		TopK:        10,
		MaxListings: 500,
		Timeout:     30 * time.Second,
	}
}
