package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProfilePath string // hcl file or directory of hcl files
	List        bool   // list implementations instead of running a profile

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProfilePath == "" && !cfg.List {
		return nil, errors.New("ProfilePath is a required configuration field unless List is set")
	}

	return &cfg, nil
}
