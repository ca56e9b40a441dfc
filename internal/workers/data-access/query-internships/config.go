// internal/workers/data-access/query-internships/config.go
package queryinternships

import "time"

type Config struct {
	DefaultLimit int
	MaxLimit     int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultLimit: 50,
		MaxLimit:     500,
		Timeout:      30 * time.Second,
	}
}
