package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Listen         string `yaml:"listen"`
	QueryTimeoutMS int    `yaml:"queryTimeoutMS" validate:"gte=0"`
}

type DataConfig struct {
	SchedulePath string `yaml:"schedule" validate:"required"`
	GraphPath    string `yaml:"graph"`

	// Transfer edge policy, in minutes. Explicit build configuration; never
	// inferred from the shipped graph.
	MinConnect int `yaml:"minConnect" validate:"gte=1"`
	MaxWait    int `yaml:"maxWait" validate:"gtefield=MinConnect"`
}

type QueryConfig struct {
	// DefaultWindowMinutes is the externally documented default window for
	// requests that do not set one.
	DefaultWindowMinutes int `yaml:"defaultWindowMinutes" validate:"gte=0,lte=480"`
}

type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Query  QueryConfig  `yaml:"query"`
}

// Default returns the configuration used when a file omits a value.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Listen:         ":8080",
			QueryTimeoutMS: 30000,
		},
		Data: DataConfig{
			SchedulePath: "data/schedule.json",
			MinConnect:   15,
			MaxWait:      90,
		},
		Query: QueryConfig{
			DefaultWindowMinutes: 120,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
// A missing file is not an error; the defaults stand.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if listen := os.Getenv("METROPLAN_LISTEN"); listen != "" {
		cfg.Server.Listen = listen
	}
	if schedule := os.Getenv("METROPLAN_SCHEDULE"); schedule != "" {
		cfg.Data.SchedulePath = schedule
	}
	if graph := os.Getenv("METROPLAN_GRAPH"); graph != "" {
		cfg.Data.GraphPath = graph
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
