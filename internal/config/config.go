package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// Config represents an application configuration.
	Config struct {
		// Subconfigs.
		Database Database `yaml:"database"`
		Logger   Logger   `yaml:"logger"`
		UI       UI       `yaml:"ui"`
	}
	// Config for the local store.
	Database struct {
		// Path to the SQLite database file.
		Path string `yaml:"path" env:"EWALLET_DB_PATH" env-default:"ewallet.db"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files. The terminal belongs to the UI,
		// so nothing is ever logged to stdout.
		Path string `yaml:"path" env:"LOG_PATH" env-default:"ewallet.log"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb" env-default:"10"`
		MaxBackups int `yaml:"max_backups" env-default:"3"`
		MaxAgeDays int `yaml:"max_age_days" env-default:"28"`
	}
	// Config for the terminal UI.
	UI struct {
		// How long a status message stays on screen.
		MessageTimeout time.Duration `yaml:"message_timeout" env:"EWALLET_MESSAGE_TIMEOUT" env-default:"5s"`
		// Number of records shown on the transactions screen.
		HistoryLimit int `yaml:"history_limit" env:"EWALLET_HISTORY_LIMIT" env-default:"10"`
	}
)

// MustLoad returns an application configuration which is populated
// from the given configuration file, environment variables and flags.
func MustLoad() *Config {
	// Configuration yaml file path.
	configPath := flag.String("config", "./config/local.yml", "path to the config file")
	dbPath := flag.String("d", "", "path to the database file")
	flag.Parse()

	var cfg Config

	// Load from YAML cfg file if one exists. A missing file is not an
	// error: the app runs fine on defaults and environment variables.
	if _, err := os.Stat(*configPath); err == nil {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Fatalf("failed to open config file: %s", *configPath)
		}
		if err = cleanenv.ParseYAML(f, &cfg); err != nil {
			log.Fatalf("failed to parse config file: %s", *configPath)
		}
		_ = f.Close()
	}

	// Read environment variables.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read environment variables: %v", err)
	}

	// Flags have the last word.
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	return &cfg
}
