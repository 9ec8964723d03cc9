package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const xdgConfigFile = "tictactoe/config.yml"

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	AI       AI     `yaml:"ai"`
}

type Redis struct {
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel     string        `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:sessions"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"30m"`
}

type AI struct {
	DelayMin          time.Duration `yaml:"delay-min" env:"AI_DELAY_MIN" env-default:"300ms"`
	DelayMax          time.Duration `yaml:"delay-max" env:"AI_DELAY_MAX" env-default:"600ms"`
	MediumProbability float64       `yaml:"medium-probability" env:"AI_MEDIUM_PROBABILITY" env-default:"0.5"`
}

// Load reads configuration from path; when path does not exist the XDG
// config directory is searched, and environment plus defaults are used last.
func Load(path string) (*Config, error) {
	config := &Config{}

	file, err := locate(path)
	if err != nil {
		return nil, err
	}

	if file == "" {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(file, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func locate(path string) (string, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	file, err := xdg.SearchConfigFile(xdgConfigFile)
	if err != nil {
		// no config file anywhere
		return "", nil
	}

	return file, nil
}

func (that *Config) validate() error {
	if that.AI.DelayMin < 0 || that.AI.DelayMax < that.AI.DelayMin {
		return fmt.Errorf("invalid ai delay range [%s, %s]", that.AI.DelayMin, that.AI.DelayMax)
	}

	if that.AI.MediumProbability < 0 || that.AI.MediumProbability > 1 {
		return fmt.Errorf("invalid ai medium-probability %v", that.AI.MediumProbability)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
