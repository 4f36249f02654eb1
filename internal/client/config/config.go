package config

import "time"

// Config holds runtime settings for the gophauth CLI.
//
//   - ServerURL: base URL of the HTTP API, scheme included.
//   - RequestTimeout: upper bound for a single HTTP round trip.
//   - HealthCheckInterval: how often the CLI probes /health to show
//     online or offline status.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	HealthCheckInterval time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3001"
	c.RequestTimeout = 10 * time.Second
	c.HealthCheckInterval = 5 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then command-line flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
