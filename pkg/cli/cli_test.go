package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rosterform/pkg/cli"
	"github.com/secmon-lab/rosterform/pkg/cli/config"
)

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"rosterform", "--log-level", "verbose", "serve"}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestRun_ServeMissingPageConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	err := cli.Run(context.Background(), []string{
		"rosterform",
		"--log-output", filepath.Join(t.TempDir(), "test.log"),
		"serve",
		"--page-config", path,
	}, "test")
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestRun_ServeIncompleteSlack(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"rosterform",
		"--log-output", filepath.Join(t.TempDir(), "test.log"),
		"serve",
		"--slack-bot-token", "xoxb-test",
	}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
