package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// ServerConfig holds the dashboard server settings
type ServerConfig struct {
	Port     int
	LogLevel string
}

// ParseServerFlags reads the server flags, falling back to PORT and LOG_LEVEL
func ParseServerFlags(args []string) (ServerConfig, error) {
	var cfg ServerConfig

	fs := flag.NewFlagSet("ciblage-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return ServerConfig{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080
		}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return ServerConfig{}, errors.New("port must be between 0 and 65535")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	return cfg, nil
}
