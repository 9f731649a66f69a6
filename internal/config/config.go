package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env    string       `toml:"env" yaml:"env" json:"env" env:"TODOBOARD_ENV" env-default:"local"`
	Log    LogConfig    `toml:"log" yaml:"log" json:"log"`
	HTTP   HTTPConfig   `toml:"http" yaml:"http" json:"http"`
	Seed   SeedConfig   `toml:"seed" yaml:"seed" json:"seed"`
	Mirror MirrorConfig `toml:"mirror" yaml:"mirror" json:"mirror"`
}

type LogConfig struct {
	Level      string `toml:"level" yaml:"level" json:"level" env:"TODOBOARD_LOG_LEVEL" env-default:"info"`
	Format     string `toml:"format" yaml:"format" json:"format" env:"TODOBOARD_LOG_FORMAT" env-default:"text"`
	Timestamps bool   `toml:"timestamps" yaml:"timestamps" json:"timestamps" env:"TODOBOARD_LOG_TIMESTAMPS" env-default:"true"`
}

type HTTPConfig struct {
	Host            string        `toml:"host" yaml:"host" json:"host" env:"TODOBOARD_HTTP_HOST" env-default:"localhost"`
	Port            string        `toml:"port" yaml:"port" json:"port" env:"TODOBOARD_HTTP_PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout" env:"TODOBOARD_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type SeedConfig struct {
	// Path to a TOML, YAML or JSON seed file. Empty means the built-in records.
	Path string `toml:"path" yaml:"path" json:"path" env:"TODOBOARD_SEED_PATH"`
}

// MirrorConfig names optional write-only copies of the collection that are
// refreshed after every change.
type MirrorConfig struct {
	JSONL  string `toml:"jsonl" yaml:"jsonl" json:"jsonl" env:"TODOBOARD_MIRROR_JSONL"`
	SQLite string `toml:"sqlite" yaml:"sqlite" json:"sqlite" env:"TODOBOARD_MIRROR_SQLITE"`
}
