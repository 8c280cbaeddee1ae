// Package config loads benchmark configuration from the environment and
// an optional config.yaml in the working directory.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "VECTRA"

// Config holds the tool-level settings. CLI flags override these.
type Config struct {
	Host     string
	Port     int
	Embedded bool
	DataDir  string
	Output   string
}

// Load reads configuration with precedence env > config.yaml > defaults.
// A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8080)
	v.SetDefault("embedded", false)
	v.SetDefault("data_dir", "./vectra-data")
	v.SetDefault("output", "performance_results.json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		Embedded: v.GetBool("embedded"),
		DataDir:  v.GetString("data_dir"),
		Output:   v.GetString("output"),
	}, nil
}
