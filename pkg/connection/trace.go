package connection

import (
	"context"
	"time"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/log"
	"github.com/tic-motion/tic-go/pkg/transport"
)

// tracingSender records every transfer of one session to a trace logger.
type tracingSender struct {
	next    transport.Sender
	trace   log.Logger
	session string
	info    transport.Info
}

func (t *tracingSender) Transfer(ctx context.Context, req transport.Request) ([]byte, error) {
	start := time.Now()
	data, err := t.next.Transfer(ctx, req)

	ev := &log.TransferEvent{
		Code:     req.Code,
		Value:    req.Value,
		Index:    req.Index,
		Length:   req.Length,
		Data:     data,
		Duration: time.Since(start),
	}
	if c, ok := command.ByCode(req.Code); ok {
		ev.Command = c.Name
	}
	if err != nil {
		ev.Err = err.Error()
	}

	dir := log.DirectionOut
	if req.Direction == transport.DirectionIn {
		dir = log.DirectionIn
	}

	t.trace.Log(log.Event{
		Timestamp: start,
		SessionID: t.session,
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryTransfer,
		Serial:    t.info.Serial,
		ProductID: t.info.ProductID,
		Transfer:  ev,
	})
	return data, err
}

func (m *Manager) traceState(old, next State, reason, session string, info transport.Info) {
	m.cfg.Trace.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: session,
		Layer:     log.LayerConnection,
		Category:  log.CategoryState,
		Serial:    info.Serial,
		ProductID: info.ProductID,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

func (m *Manager) traceError(layer log.Layer, err error, op, session string, info transport.Info) {
	m.cfg.Trace.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: session,
		Layer:     layer,
		Category:  log.CategoryError,
		Serial:    info.Serial,
		ProductID: info.ProductID,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: op,
		},
	})
}
