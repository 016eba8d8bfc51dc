package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/benrowan/crusty-crawler/internal/flagx"
	"github.com/benrowan/crusty-crawler/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. It uses timex.Duration for interval fields so values
// can be written either as strings ("60s") or integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	Port        int            `json:"port"`
	BindHost    string         `json:"bind_host"`
	AuthFile    string         `json:"auth_file"`
	StaticDir   string         `json:"static_dir"`
	HardwareTTL timex.Duration `json:"hardware_ttl"`
	LogLevel    string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no JSON file is loaded. An unreadable or malformed file
// panics: a config file that exists but cannot be used is an operator error
// worth failing fast on.
//
// Only fields actually present in the file override the defaults.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Port != 0 {
		config.Port = c.Port
	}
	if c.BindHost != "" {
		config.BindHost = c.BindHost
	}
	if c.AuthFile != "" {
		config.AuthFile = c.AuthFile
	}
	if c.StaticDir != "" {
		config.StaticDir = c.StaticDir
	}
	if c.HardwareTTL.Duration != 0 {
		config.HardwareTTL = time.Duration(c.HardwareTTL.Duration)
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
