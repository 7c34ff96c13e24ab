package config

import "fmt"

// Validate checks that the loaded configuration is usable.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("database host and name are required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if len(cfg.Assistant.QuickKeywords) == 0 {
		return fmt.Errorf("assistant quick keyword list must not be empty")
	}
	if cfg.Assistant.QuickLimit <= 0 {
		return fmt.Errorf("invalid assistant quick limit: %d", cfg.Assistant.QuickLimit)
	}
	if cfg.Assistant.HistoryLimit <= 0 {
		return fmt.Errorf("invalid assistant history limit: %d", cfg.Assistant.HistoryLimit)
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache ttl")
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit request count")
		}
		if cfg.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
