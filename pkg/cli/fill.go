package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/rosterform/pkg/cli/config"
	"github.com/secmon-lab/rosterform/pkg/controller/prompt"
	"github.com/secmon-lab/rosterform/pkg/repository/memory"
	"github.com/secmon-lab/rosterform/pkg/service/notify"
	"github.com/secmon-lab/rosterform/pkg/usecase"
	"github.com/secmon-lab/rosterform/pkg/utils/safe"
)

func cmdFill(loggerCfg *config.Logger) *cli.Command {
	var noColor bool
	var appCfg config.AppConfig
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Destination: &noColor,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "fill",
		Aliases: []string{"f"},
		Usage:   "Fill in a roster form interactively in the terminal",
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// stdout carries the prompts and the state table
			if _, err := loggerCfg.MoveStdoutToStderr(); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			page, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load page configuration")
			}

			slackObs, err := slackCfg.Configure(notify.WithSyncDelivery())
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack notification")
			}

			repo := memory.New()
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo,
				usecase.WithSubmitObserver(notify.NewLogger()),
				usecase.WithSubmitObserver(slackObs),
			)

			session := prompt.New(uc.Form, prompt.NewSurveyDriver(), os.Stdout,
				prompt.WithColor(!noColor),
				prompt.WithText(page.Title, page.SuccessMessage),
			)
			if _, err := session.Run(ctx); err != nil {
				return goerr.Wrap(err, "form session failed")
			}
			return nil
		},
	}
}
