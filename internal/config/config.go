package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

type Config struct {
	Port         string
	Driver       string
	DatabaseURL  string
	DateLayout   string
	PollInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// fileConfig is the shape of the optional TOML file named by TODO_CONFIG.
type fileConfig struct {
	Port         string `toml:"port"`
	Driver       string `toml:"driver"`
	DatabaseURL  string `toml:"database_url"`
	DateLayout   string `toml:"date_layout"`
	PollInterval string `toml:"poll_interval"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

const fileSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"port": {"type": "string", "pattern": "^[0-9]{1,5}$"},
		"driver": {"enum": ["sqlite", "sqlite3", "postgres", "pgx", "mysql"]},
		"database_url": {"type": "string"},
		"date_layout": {"type": "string", "minLength": 1},
		"poll_interval": {"type": "string", "pattern": "^([0-9]+(ns|us|ms|s|m|h))+$"},
		"read_timeout": {"type": "string", "pattern": "^([0-9]+(ns|us|ms|s|m|h))+$"},
		"write_timeout": {"type": "string", "pattern": "^([0-9]+(ns|us|ms|s|m|h))+$"}
	}
}`

var schema = jsonschema.MustCompileString("config.schema.json", fileSchema)

func Default() Config {
	return Config{
		Port:         "8080",
		Driver:       "sqlite",
		DatabaseURL:  "",
		DateLayout:   "02.01.2006",
		PollInterval: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем TOML-файл из
// TODO_CONFIG, затем переменные окружения.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TODO_CONFIG"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Driver = getEnv("DB_DRIVER", cfg.Driver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DateLayout = getEnv("DATE_LAYOUT", cfg.DateLayout)
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validate(raw); err != nil {
		return err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}

	setString(&cfg.Port, fc.Port)
	setString(&cfg.Driver, fc.Driver)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.DateLayout, fc.DateLayout)
	for _, d := range []struct {
		dst *time.Duration
		src string
	}{
		{&cfg.PollInterval, fc.PollInterval},
		{&cfg.ReadTimeout, fc.ReadTimeout},
		{&cfg.WriteTimeout, fc.WriteTimeout},
	} {
		if d.src == "" {
			continue
		}
		v, err := time.ParseDuration(d.src)
		if err != nil {
			return err
		}
		*d.dst = v
	}
	return nil
}

// validate checks the decoded file against fileSchema. The map goes through
// JSON first so that the validator sees plain JSON values.
func validate(raw map[string]any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
