// Package log records a machine-readable trace of controller traffic.
//
// It is separate from operational logging (slog). A trace holds every
// control transfer the connection manager issued, every connection state
// change and every error, tagged with the session id of the binding that
// produced it.
//
// # Basic Usage
//
//	// Console, at debug level
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// Binary trace file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/tic/axis0.tlog")
//
//	// Both
//	cfg.Trace = log.NewMultiLogger(console, file)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer map keys,
// conventionally named *.tlog. The tic-log command reads them.
package log
