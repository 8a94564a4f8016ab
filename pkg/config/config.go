package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	once     sync.Once
	instance *Config
)

const defaultEnvPath = "./configs/.env"

type Config struct {
}

// New loads the env file once. The path can be overridden with CEOOS_ENV_FILE.
// A missing file is tolerated so the process can run on plain environment.
func New() *Config {
	once.Do(func() {
		path := os.Getenv("CEOOS_ENV_FILE")
		if path == "" {
			path = defaultEnvPath
		}
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatal("loading envs error: ", err)
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

// GetInt returns def when key is unset or not a number.
func (c *Config) GetInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// GetDuration parses values like "90s" or "1h". def is returned when key is
// unset or malformed.
func (c *Config) GetDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func (c *Config) GetBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
