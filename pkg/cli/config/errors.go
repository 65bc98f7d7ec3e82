package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrUnsupportedFile = goerr.New("unsupported configuration file type")
	ErrMissingTitle    = goerr.New("page title is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
)
