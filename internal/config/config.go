package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "MOVIES_ETL_CONFIG"
	baseURLEnv    = "BASE_URL"
	apiKeyEnv     = "API_KEY"
	dbHostEnv     = "DB_HOST"
	dbPortEnv     = "DB_PORT"
	dbUserEnv     = "DB_USER"
	dbPasswordEnv = "DB_PASSWORD"
	dbNameEnv     = "DB_NAME"
	outputDirEnv  = "LOG_FOLDER_DATA"
	logLevelEnv   = "LOG_LEVEL"
)

// Config holds every setting the pipeline needs resolved before it runs.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig describes the movie data provider.
type APIConfig struct {
	BaseURL string `yaml:"baseUrl"`
	Key     string `yaml:"key"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN renders a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// OutputConfig names the writable directory for debug snapshots and logs.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(baseURLEnv); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv(dbHostEnv); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv(dbPortEnv); v != "" {
		c.Database.Port = v
	}
	if v := os.Getenv(dbUserEnv); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv(dbPasswordEnv); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(dbNameEnv); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.Key != "" {
		base.API.Key = override.API.Key
	}

	if override.Database.Host != "" {
		base.Database.Host = override.Database.Host
	}
	if override.Database.Port != "" {
		base.Database.Port = override.Database.Port
	}
	if override.Database.User != "" {
		base.Database.User = override.Database.User
	}
	if override.Database.Password != "" {
		base.Database.Password = override.Database.Password
	}
	if override.Database.Name != "" {
		base.Database.Name = override.Database.Name
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.themoviedb.org/3",
			Key:     "",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "password",
			Name:     "postgres",
		},
		Output:  OutputConfig{Dir: "output"},
		Logging: LoggingConfig{Level: "info"},
	}
}
