// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msrf implements the MSRF binary container format: a self-framing
// byte stream of typed, source-tagged records.
//
// Semantics and design:
//   - Self-framing: a fixed header is followed by an ordered sequence of
//     record frames and a terminating end-of-stream marker. Every payload is
//     closed by a guard byte (0x00) so framing desynchronisation is caught at
//     the next frame boundary.
//   - Nesting: a record whose type id carries the container flag announces a
//     count of immediate child records that follow it in the stream. Readers
//     and writers track the open-container stack; recursion depth is bounded
//     only by memory, never by the call stack.
//   - Scoped sub-streams: payload bytes are produced and consumed through
//     bounded handles (RecordSink, RecordChunk) owned by the writer/reader.
//     Releasing a handle — explicitly via Close or implicitly by starting the
//     next frame — pads, guards and drains as needed, so even buggy payload
//     code leaves a well-framed stream behind.
//   - Non-blocking first: iox.ErrWouldBlock and iox.ErrMore are surfaced as
//     control-flow signals (re-exposed as msrf.ErrWouldBlock / msrf.ErrMore).
//     A retry policy can be configured via WithRetryDelay / WithBlock.
//
// Wire format (version 0), all integers little-endian:
//
//	Header       = "MSRF" | version:u16 | 0x00
//	RecordHeader = source:u16 | type:u16 | length:varint [| contained:u16 if type&0x8000]
//	RecordFrame  = RecordHeader | payload[length] | 0x00
//	Stream       = Header | RecordFrame* | EOS
//	EOS          = 0xFF 0xFF
//
// length is a self-describing varint: the count of trailing zero bits in its
// first byte, plus one, is the total encoded length (1 through 9 bytes).
package msrf

import (
	"code.hybscloud.com/iox"
)

const (
	// CurrentVersion is the newest framing version this package encodes.
	CurrentVersion uint16 = 0

	headerLen = 7
	guardByte = 0x00
)

var magicBytes = [4]byte{'M', 'S', 'R', 'F'}

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O.
	// Any returned byte count still represents real progress.
	//
	// Caller action: stop the current attempt and retry later (after
	// readiness/event), or configure RetryDelay to emulate cooperative
	// blocking on top of a non-blocking transport.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will
	// follow”. The operation remains active; call again for the next chunk.
	ErrMore = iox.ErrMore
)
