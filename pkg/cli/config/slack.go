package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/service/notify"
	"github.com/secmon-lab/rosterform/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for announcing submissions in a Slack channel
type Slack struct {
	botToken  string
	channelID string
	apiURL    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting submissions)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("ROSTERFORM_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives accepted submissions",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("ROSTERFORM_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
	)
}

// IsConfigured checks if Slack notification is enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channelID != ""
}

// Configure returns the Slack submit observer, or nil when Slack is not configured
func (x *Slack) Configure(opts ...notify.SlackOption) (interfaces.SubmitObserver, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" || x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel are required to post submissions")
	}

	var svcOpts []slack.Option
	if x.apiURL != "" {
		svcOpts = append(svcOpts, slack.WithAPIURL(x.apiURL))
	}
	svc, err := slack.New(x.botToken, svcOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	obs, err := notify.NewSlack(svc, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return obs, nil
}
