// Package connection owns the binding to one motor controller and keeps it
// alive across unplug and replug.
//
// A Manager runs a single discovery goroutine. While no device is bound it
// asks the transport for a matching device at the discovery interval. A
// newly found device is prepared on a private handle before anyone else can
// use it:
//
//  1. The cached settings profile is replayed, writing only changed bytes.
//  2. Reinitialize makes the controller reload its settings.
//  3. Energize enables the motor driver.
//
// Only then is the handle published and the manager reports BOUND.
//
// # Foreground Calls
//
// Every public operation holds an exclusive I/O lock for its full duration
// and sees exactly one handle. When nothing is bound the call fails at once
// with ErrDeviceUnavailable. A failed transfer closes the handle, returns the
// manager to UNBOUND and is reported as ErrTransportFailure wrapping the
// transport error. Argument errors (command.ErrProtocolViolation) never
// unbind.
//
// # Discovery Cadence
//
// Discovery delays come from a Backoff. The default is a fixed 500ms poll.
// The first attempt after Start or after losing the device is immediate.
package connection
