package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	slacksvc "github.com/secmon-lab/rosterform/pkg/service/slack"
	"github.com/secmon-lab/rosterform/pkg/utils/async"
	"github.com/slack-go/slack"
)

// maxNameBytes caps a name inside a section block; Slack rejects section
// text longer than 3000 characters.
const maxNameBytes = 200

// Slack posts a summary of every accepted submission to a channel
type Slack struct {
	svc       slacksvc.Service
	channelID string
	policy    *bluemonday.Policy
	dispatch  func(ctx context.Context, handler func(ctx context.Context) error)
}

var _ interfaces.SubmitObserver = (*Slack)(nil)

// SlackOption configures the Slack observer
type SlackOption func(*Slack)

// WithSyncDelivery posts from the caller's goroutine instead of dispatching
func WithSyncDelivery() SlackOption {
	return func(s *Slack) {
		s.dispatch = func(ctx context.Context, handler func(ctx context.Context) error) {
			_ = handler(ctx)
		}
	}
}

// NewSlack creates a Slack observer posting to channelID
func NewSlack(svc slacksvc.Service, channelID string, opts ...SlackOption) (*Slack, error) {
	if svc == nil {
		return nil, goerr.New("slack service is required")
	}
	if channelID == "" {
		return nil, goerr.New("slack channel ID is required")
	}

	s := &Slack{
		svc:       svc,
		channelID: channelID,
		policy:    bluemonday.StrictPolicy(),
		dispatch:  async.Dispatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (x *Slack) OnSubmit(ctx context.Context, submission *model.Submission) error {
	blocks, text := x.buildMessage(submission)

	x.dispatch(ctx, func(ctx context.Context) error {
		if _, err := x.svc.PostMessage(ctx, x.channelID, blocks, text); err != nil {
			return goerr.Wrap(err, "failed to post submission to slack",
				goerr.V("session_id", submission.SessionID),
				goerr.V("channel_id", x.channelID),
			)
		}
		return nil
	})
	return nil
}

func (x *Slack) buildMessage(submission *model.Submission) ([]slack.Block, string) {
	text := fmt.Sprintf("Roster submitted with %d entr%s", len(submission.Fields), plural(len(submission.Fields)))

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Roster submitted", false, false)),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s at %s", text, submission.SubmittedAt.Format("2006-01-02 15:04:05 MST")),
				false, false),
		),
		slack.NewDividerBlock(),
	}

	for i, f := range submission.Fields {
		fields := []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*#%d Name*\n%s", i+1, x.cleanName(f.Name)), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Role*\n%s", f.Role.String()), false, false),
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	return blocks, text
}

// quoteUnescaper undoes the quote entities bluemonday emits; Slack only
// decodes &amp;, &lt; and &gt;
var quoteUnescaper = strings.NewReplacer("&#34;", `"`, "&#39;", "'")

// cleanName strips markup from a user supplied name and bounds its length.
// The remaining &, < and > stay entity-escaped as mrkdwn requires.
func (x *Slack) cleanName(name string) string {
	s := strings.TrimSpace(x.policy.Sanitize(name))
	s = quoteUnescaper.Replace(s)
	return truncateToMaxBytes(s, maxNameBytes)
}

// truncateToMaxBytes cuts s to at most n bytes without splitting a rune
func truncateToMaxBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
