package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// MustLoad reads the YAML config named by CONFIG_PATH, with environment
// variables overriding file values. It exits the process on failure; there
// is nothing useful to do without a config.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yml"
	}

	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("config file %s not found and env-only config failed: %s", configPath, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config %s: %s", configPath, err)
	}

	return &cfg
}
