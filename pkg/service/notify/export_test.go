package notify

import (
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/slack-go/slack"
)

// TruncateToMaxBytes is exported for testing UTF-8 truncation
var TruncateToMaxBytes = truncateToMaxBytes

// BuildMessage is exported for testing
func (x *Slack) BuildMessage(submission *model.Submission) ([]slack.Block, string) {
	return x.buildMessage(submission)
}
