package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestLog(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, path string, filter Filter) []Event {
	t.Helper()
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var out []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, event)
	}
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, SessionID: "s1", Serial: "A", Direction: DirectionOut, Layer: LayerTransport,
			Category: CategoryTransfer, Transfer: &TransferEvent{Code: 0x85, Command: "Energize"}},
		{Timestamp: base.Add(time.Second), SessionID: "s1", Serial: "A", Direction: DirectionIn, Layer: LayerTransport,
			Category: CategoryTransfer, Transfer: &TransferEvent{Code: 0xA1, Command: "GetVariable", Length: 4}},
		{Timestamp: base.Add(2 * time.Second), SessionID: "s1", Layer: LayerConnection,
			Category: CategoryState, StateChange: &StateChangeEvent{OldState: "BOUND", NewState: "UNBOUND"}},
		{Timestamp: base.Add(3 * time.Second), SessionID: "s2", Serial: "A", Layer: LayerProfile,
			Category: CategoryError, Error: &ErrorEventData{Layer: LayerProfile, Message: "boom"}},
	}
}

func TestReaderIteratesInOrder(t *testing.T) {
	path := writeTestLog(t, sampleEvents(time.Now()))

	events := readAll(t, path, Filter{})
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Transfer == nil || events[0].Transfer.Command != "Energize" {
		t.Errorf("first event: %+v", events[0])
	}
	if events[3].Error == nil || events[3].Error.Message != "boom" {
		t.Errorf("last event: %+v", events[3])
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := writeTestLog(t, sampleEvents(base))

	in := DirectionIn
	transfer := CategoryTransfer
	profile := LayerProfile
	code := uint8(0x85)
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"Session", Filter{SessionID: "s2"}, 1},
		{"Serial", Filter{Serial: "A"}, 3},
		{"Direction", Filter{Direction: &in}, 1},
		{"Category", Filter{Category: &transfer}, 2},
		{"Layer", Filter{Layer: &profile}, 1},
		{"Code", Filter{Code: &code}, 1},
		{"TimeWindow", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"Combined", Filter{SessionID: "s1", Category: &transfer, Direction: &in}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(readAll(t, path, tt.filter)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := writeTestLog(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	path := writeTestLog(t, sampleEvents(time.Now())[:1])

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	_, err = reader.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected decode error for truncated event, got %v", err)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.tlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
