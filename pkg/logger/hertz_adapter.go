package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter adapts slog to Hertz's hlog interface
type HertzSlogAdapter struct {
	logger *slog.Logger
}

// NewHertzSlogAdapter creates a new Hertz logger adapter using slog
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	return &HertzSlogAdapter{
		logger: logger,
	}
}

func (h *HertzSlogAdapter) Trace(v ...interface{}) {
	h.logger.Debug(formatMessage(v...))
}

func (h *HertzSlogAdapter) Debug(v ...interface{}) {
	h.logger.Debug(formatMessage(v...))
}

func (h *HertzSlogAdapter) Info(v ...interface{}) {
	h.logger.Info(formatMessage(v...))
}

// Notice maps to Info, slog has no notice level
func (h *HertzSlogAdapter) Notice(v ...interface{}) {
	h.logger.Info(formatMessage(v...))
}

func (h *HertzSlogAdapter) Warn(v ...interface{}) {
	h.logger.Warn(formatMessage(v...))
}

func (h *HertzSlogAdapter) Error(v ...interface{}) {
	h.logger.Error(formatMessage(v...))
}

func (h *HertzSlogAdapter) Fatal(v ...interface{}) {
	h.logger.Error(formatMessage(v...))
}

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.logger.Debug(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.logger.Debug(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.logger.Info(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.logger.Info(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.logger.Warn(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.logger.Error(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.logger.Error(formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.logger.DebugContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.logger.DebugContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.logger.InfoContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.logger.InfoContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.logger.WarnContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.logger.ErrorContext(ctx, formatMessagef(format, v...))
}

func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.logger.ErrorContext(ctx, formatMessagef(format, v...))
}

// SetLevel is a no-op, slog level is fixed at setup time
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {
}

// SetOutput is a no-op, slog output is fixed at setup time
func (h *HertzSlogAdapter) SetOutput(writer io.Writer) {
}

func formatMessage(v ...interface{}) string {
	if len(v) == 0 {
		return ""
	}
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}

func formatMessagef(format string, v ...interface{}) string {
	return fmt.Sprintf(format, v...)
}
