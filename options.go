// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "time"

// Options configures a Reader or Writer.
type Options struct {
	// Version selects the framing version a Writer emits. A Reader accepts
	// any version it has a codec for. Only CurrentVersion is defined.
	Version uint16

	// ReadLimit caps the payload length a Reader accepts per record
	// (bytes). Zero means no limit. A record declaring a longer payload
	// fails with a LengthError before any payload byte is consumed.
	ReadLimit uint64

	// RetryDelay controls how iox.ErrWouldBlock from the underlying
	// transport is handled:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	Version:    CurrentVersion,
	ReadLimit:  0,
	RetryDelay: -1, // default: nonblock
}

type Option func(*Options)

// WithVersion selects the framing version a Writer emits. Init rejects
// versions without a codec.
func WithVersion(version uint16) Option {
	return func(o *Options) { o.Version = version }
}

// WithReadLimit caps the maximum accepted payload size (bytes). Zero means
// no limit.
func WithReadLimit(limit uint64) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

// WithRetryDelay sets the retry/wait policy used when the underlying
// transport returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
