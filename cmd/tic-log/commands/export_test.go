package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tic-motion/tic-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleTrace() []log.Event {
	ts := time.Date(2026, 3, 4, 10, 15, 32, 123456000, time.UTC)
	return []log.Event{
		{
			Timestamp: ts,
			Layer:     log.LayerConnection,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				OldState: "UNBOUND",
				NewState: "BINDING",
				Reason:   "discovering",
			},
		},
		{
			Timestamp: ts.Add(time.Millisecond),
			SessionID: "a1b2c3d4-0000-4000-8000-000000000001",
			Direction: log.DirectionOut,
			Layer:     log.LayerTransport,
			Category:  log.CategoryTransfer,
			Serial:    "00123456",
			ProductID: 0x00B5,
			Transfer: &log.TransferEvent{
				Code:     0xE0,
				Command:  "SetTargetPosition",
				Value:    0x5678,
				Index:    0x1234,
				Duration: 180 * time.Microsecond,
			},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond),
			SessionID: "a1b2c3d4-0000-4000-8000-000000000001",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryTransfer,
			Serial:    "00123456",
			ProductID: 0x00B5,
			Transfer: &log.TransferEvent{
				Code:     0xA1,
				Command:  "GetVariable",
				Index:    0x22,
				Length:   4,
				Data:     []byte{0x10, 0x00, 0x00, 0x00},
				Duration: 250 * time.Microsecond,
			},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond),
			SessionID: "a1b2c3d4-0000-4000-8000-000000000001",
			Direction: log.DirectionOut,
			Layer:     log.LayerTransport,
			Category:  log.CategoryTransfer,
			Serial:    "00123456",
			Transfer: &log.TransferEvent{
				Code:    0x85,
				Command: "Energize",
				Err:     "device disconnected",
			},
		},
		{
			Timestamp: ts.Add(4 * time.Millisecond),
			Layer:     log.LayerProfile,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerProfile,
				Message: "apply StepMode: device disconnected",
				Context: "prepare",
			},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleTrace())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var got log.Event
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if got.Transfer == nil || got.Transfer.Command != "SetTargetPosition" {
		t.Errorf("expected SetTargetPosition transfer, got %+v", got.Transfer)
	}
	if got.SessionID != "a1b2c3d4-0000-4000-8000-000000000001" {
		t.Errorf("unexpected session id %q", got.SessionID)
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleTrace())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][6] != "command" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	read := rows[3]
	if read[6] != "GetVariable" || read[7] != "0xA1" || read[11] != "10000000" {
		t.Errorf("unexpected transfer row: %v", read)
	}
	if rows[1][13] != "UNBOUND->BINDING" {
		t.Errorf("unexpected state detail %q", rows[1][13])
	}
	if rows[4][13] != "device disconnected" {
		t.Errorf("expected transfer error in detail, got %q", rows[4][13])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleTrace())
	err := RunExport(path, "xml", "")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	if err := RunExport(filepath.Join(t.TempDir(), "missing.tlog"), "jsonl", ""); err == nil {
		t.Error("expected error for missing file")
	}
}
