package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tic-motion/tic-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Commands          map[string]int
	Sessions          map[string]*SessionStats
	Errors            int
	FailedTransfers   int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single bind.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Transfers int
	Serial    string

	// TransferTime is the sum of transfer durations.
	TransferTime time.Duration
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Commands:          make(map[string]int),
		Sessions:          make(map[string]*SessionStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Error != nil {
		s.Errors++
	}

	// Events outside a bind carry no session id.
	var sess *SessionStats
	if event.SessionID != "" {
		sess = s.Sessions[event.SessionID]
		if sess == nil {
			sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			s.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if sess.Serial == "" {
			sess.Serial = event.Serial
		}
	}

	t := event.Transfer
	if t == nil {
		return
	}
	s.EventsByDirection[event.Direction]++
	name := t.Command
	if name == "" {
		name = fmt.Sprintf("0x%02X", t.Code)
	}
	s.Commands[name]++
	if t.Err != "" {
		s.FailedTransfers++
	}
	if sess != nil {
		sess.Transfers++
		sess.TransferTime += t.Duration
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerConnection, log.LayerProfile} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTransfer, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Commands) > 0 {
		fmt.Fprintln(w, "Transfers by Direction:")
		for _, dir := range []log.Direction{log.DirectionOut, log.DirectionIn} {
			if count := stats.EventsByDirection[dir]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
			}
		}
		fmt.Fprintln(w)

		names := make([]string, 0, len(stats.Commands))
		for name := range stats.Commands {
			names = append(names, name)
		}
		// Most frequent first, then by name.
		sort.Slice(names, func(i, j int) bool {
			ci, cj := stats.Commands[names[i]], stats.Commands[names[j]]
			if ci != cj {
				return ci > cj
			}
			return names[i] < names[j]
		})
		fmt.Fprintln(w, "Transfers by Command:")
		for _, name := range names {
			fmt.Fprintf(w, "  %-28s %d\n", name+":", stats.Commands[name])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenSessionID(s.id), s.stats.Events, duration)
			if s.stats.Serial != "" {
				fmt.Fprintf(w, "           Serial: %s\n", s.stats.Serial)
			}
			if s.stats.Transfers > 0 {
				avg := s.stats.TransferTime / time.Duration(s.stats.Transfers)
				fmt.Fprintf(w, "           Transfers: %d (avg %s)\n", s.stats.Transfers, formatDuration(avg))
			}
		}
	}

	if stats.Errors > 0 || stats.FailedTransfers > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
		fmt.Fprintf(w, "Failed Transfers: %d\n", stats.FailedTransfers)
	}
}
