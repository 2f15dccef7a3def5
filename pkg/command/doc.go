// Package command defines the controller's command catalog and encodes
// commands into control transfer requests.
//
// Every command has one of five shapes:
//
//	Shape       Direction  Value            Index             Length
//	NoArgs      out        0                0                 0
//	SmallArg    out        arg (0-127)      0                 0
//	WideArg     out        arg & 0xFFFF     (arg>>16)&0xFFFF  0
//	BlockRead   in         0                offset            length
//	BlockWrite  out        data byte        offset            0
//
// Encoding rejects out-of-domain arguments with ErrProtocolViolation before
// any transfer is attempted. Transport failures are wrapped, never replaced,
// so errors.Is(err, transport.ErrDisconnected) holds for callers.
package command
