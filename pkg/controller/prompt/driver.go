package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/m-mizutani/goerr/v2"
)

// ErrAborted is returned by a Driver when the user interrupts a prompt
var ErrAborted = goerr.New("prompt aborted")

// Driver abstracts the terminal prompts so the session loop can run against a
// scripted fake in tests
type Driver interface {
	Select(ctx context.Context, message string, options []string) (int, error)
	Input(ctx context.Context, message, defaultValue string) (string, error)
}

type surveyDriver struct {
	opts []survey.AskOpt
}

// NewSurveyDriver returns a Driver backed by AlecAivazis/survey reading from
// the process terminal
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

// NewSurveyDriverWithStdio returns a survey Driver bound to the given streams
func NewSurveyDriverWithStdio(in terminal.FileReader, out terminal.FileWriter, errOut terminal.FileWriter) Driver {
	return &surveyDriver{
		opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)},
	}
}

func (d *surveyDriver) Select(ctx context.Context, message string, options []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(options, out), nil
}

func (d *surveyDriver) Input(ctx context.Context, message, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return goerr.Wrap(err, "prompt failed")
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
