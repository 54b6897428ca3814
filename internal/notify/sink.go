package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Show(n Notification) {
	level := slog.LevelInfo
	switch n.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, n.Message, "notification_id", n.ID, "category", n.Category)
}

func (s *LogSink) Dismiss(string) {}

// WriterSink prints one line per notification, for terminals.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

var levelMarks = map[Level]string{
	LevelSuccess: "ok",
	LevelInfo:    "info",
	LevelWarning: "warn",
	LevelError:   "error",
}

func (s *WriterSink) Show(n Notification) {
	_, _ = fmt.Fprintf(s.w, "[%s] %s\n", levelMarks[n.Level], n.Message)
}

func (s *WriterSink) Dismiss(string) {}
