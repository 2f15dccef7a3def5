// Package commands implements the tic-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Code      *uint8
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Layer:     f.Layer,
		Direction: f.Direction,
		Category:  f.Category,
		Code:      f.Code,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] DIRECTION LAYER label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	var label string
	switch {
	case event.Transfer != nil:
		label = event.Transfer.Command
		if label == "" {
			label = fmt.Sprintf("0x%02X", event.Transfer.Code)
		}
	case event.StateChange != nil:
		label = "State"
	case event.Error != nil:
		label = "Error"
	default:
		label = "Unknown"
	}

	dir := event.Direction.String()
	if event.Transfer == nil {
		dir = "-"
	}

	fmt.Fprintf(w, "%s [%s] %-3s %s %s\n", ts, session, dir, event.Layer.String(), label)
	if event.Serial != "" {
		fmt.Fprintf(w, "  Device: %s (0x%04X)\n", event.Serial, event.ProductID)
	}

	switch {
	case event.Transfer != nil:
		formatTransferDetails(w, event.Transfer)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if id == "" {
		return "--------"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTransferDetails(w io.Writer, t *log.TransferEvent) {
	fmt.Fprintf(w, "  Code: 0x%02X  Value: 0x%04X  Index: 0x%04X", t.Code, t.Value, t.Index)
	if t.Length > 0 {
		fmt.Fprintf(w, "  Length: %d", t.Length)
	}
	fmt.Fprintln(w)
	if len(t.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", hex.EncodeToString(t.Data))
	}
	if t.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(t.Duration))
	}
	if t.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", t.Err)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer string (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "connection":
		return log.LayerConnection, nil
	case "profile":
		return log.LayerProfile, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, connection, or profile)", s)
	}
}

// ParseDirectionFlag parses a direction string (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "transfer":
		return log.CategoryTransfer, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be transfer, state, or error)", s)
	}
}

// ParseCodeFlag parses a request code given as a command name or a number.
func ParseCodeFlag(s string) (uint8, error) {
	if c, ok := command.ByName(s); ok {
		return c.Code, nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid code: %s (must be a command name or 0-255)", s)
	}
	return uint8(n), nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
