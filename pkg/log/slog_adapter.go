package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Serial != "" {
		attrs = append(attrs, slog.String("serial", event.Serial))
	}

	switch {
	case event.Transfer != nil:
		tr := event.Transfer
		attrs = append(attrs,
			slog.String("direction", event.Direction.String()),
			slog.Int("code", int(tr.Code)),
			slog.String("command", tr.Command),
			slog.Int("value", int(tr.Value)),
			slog.Int("index", int(tr.Index)),
		)
		if tr.Length > 0 {
			attrs = append(attrs, slog.Int("length", int(tr.Length)))
		}
		if len(tr.Data) > 0 {
			attrs = append(attrs, slog.String("data", hex.EncodeToString(tr.Data)))
		}
		if tr.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", tr.Duration))
		}
		if tr.Err != "" {
			attrs = append(attrs, slog.String("error", tr.Err))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
