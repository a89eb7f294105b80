package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment, optionally loading a .env
// file first. A missing .env file is not an error.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment as-is")
		}
	} else {
		for _, path := range envFiles {
			if err := godotenv.Load(path); err != nil {
				logger.Warn("could not load environment file", "path", path, "error", err)
			}
		}
	}

	var cfg App
	if err := envconfig.Process("BANKLEDGER", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
