package config

import (
	"io"
	"log/slog"
)

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, apiURL string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
		apiURL:    apiURL,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewLogHandler is exported for testing
func NewLogHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	return newLogHandler(w, format, level)
}
