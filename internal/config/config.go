package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server Server `yaml:"server"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	CacheBackend  string `yaml:"cacheBackend"` // memory, memcached
	RolloverLock  string `yaml:"rolloverLock"` // global, category
	AdminToken    string `yaml:"adminToken"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Server.CacheBackend == "" {
		config.Server.CacheBackend = "memory"
	}
	if config.Server.RolloverLock == "" {
		config.Server.RolloverLock = "global"
	}

	return config, nil
}
