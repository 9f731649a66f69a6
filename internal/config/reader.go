package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the configuration from environment variables only.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return cfg, nil
}

// FileReader reads a TOML, YAML or JSON file and applies environment
// overrides on top of it.
type FileReader struct {
	Path string
}

func NewFileReader(path string) FileReader {
	return FileReader{Path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadConfig(r.Path, cfg); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", r.Path, err)
	}
	return cfg, nil
}

// Read picks a FileReader when path is set and an EnvReader otherwise.
func Read(path string) (*Config, error) {
	var reader Reader = NewEnvReader()
	if path != "" {
		reader = NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}
	return nil
}
