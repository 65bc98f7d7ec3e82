package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Page holds the static text of the form page
type Page struct {
	Title          string `toml:"title" yaml:"title"`
	Description    string `toml:"description" yaml:"description"`
	SuccessTitle   string `toml:"success_title" yaml:"success_title"`
	SuccessMessage string `toml:"success_message" yaml:"success_message"`
}

// DefaultPage returns the page text used when no configuration file is given
func DefaultPage() Page {
	return Page{
		Title:          "Dynamic Form Builder",
		Description:    "A responsive form where you can add, validate, and remove fields.",
		SuccessTitle:   "Success!",
		SuccessMessage: "The form data has been added.",
	}
}

// Validate checks if the Page is valid
func (p *Page) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return goerr.Wrap(ErrMissingTitle, "invalid page configuration")
	}
	return nil
}

// withDefaults fills empty optional text from DefaultPage
func (p Page) withDefaults() Page {
	def := DefaultPage()
	if p.SuccessTitle == "" {
		p.SuccessTitle = def.SuccessTitle
	}
	if p.SuccessMessage == "" {
		p.SuccessMessage = def.SuccessMessage
	}
	return p
}

// LoadPage loads page text from a TOML (.toml) or YAML (.yaml, .yml) file
func LoadPage(path string) (*Page, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "page config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var page Page
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &page); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &page); err != nil {
			return nil, goerr.Wrap(err, "failed to parse YAML config", goerr.V(ConfigPathKey, path))
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedFile, "page config must be TOML or YAML", goerr.V(ConfigPathKey, path))
	}

	if err := page.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	page = page.withDefaults()
	return &page, nil
}

// AppConfig holds CLI flags for application configuration
type AppConfig struct {
	pageConfigPath string
}

func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "page-config",
			Usage:       "Path to a TOML or YAML file with the page title and messages",
			Sources:     cli.EnvVars("ROSTERFORM_PAGE_CONFIG"),
			Destination: &x.pageConfigPath,
		},
	}
}

// Configure returns the page text, loading the configuration file if one was given
func (x *AppConfig) Configure() (*Page, error) {
	if x.pageConfigPath == "" {
		page := DefaultPage()
		return &page, nil
	}
	return LoadPage(x.pageConfigPath)
}
