// Package config handles configuration for the status server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Crusty-Crawler server.
//
// Fields:
//   - Port: TCP port the HTTP listener binds when started.
//   - BindHost: interface to bind; "0.0.0.0" exposes the server to the LAN.
//   - AuthFile: path of the JSON credential store.
//   - StaticDir: directory served for paths not handled by the API.
//   - HardwareTTL: maximum age of the cached hardware snapshot.
//   - LogLevel: minimum log level ("debug", "info", "warn", "error").
type Config struct {
	Port        int
	BindHost    string
	AuthFile    string
	StaticDir   string
	HardwareTTL time.Duration
	LogLevel    string
}

// LoadDefaults populates Config with the stock single-host defaults.
func (c *Config) LoadDefaults() {
	c.Port = 3000
	c.BindHost = "0.0.0.0"
	c.AuthFile = "crusty_auth.json"
	c.StaticDir = "public"
	c.HardwareTTL = 60 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
