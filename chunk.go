// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

// RecordChunk is the bounded reader for one record's payload. It is handed
// out by Reader.ReadRecord and never delivers bytes past the declared
// payload length, so a user decoder cannot over-read its record.
//
// The chunk holds the reader's transport until it is released: either
// explicitly via Close, or implicitly when the owning Reader starts the next
// record. Releasing a chunk with unread bytes drains them, so skipping a
// record is simply not reading it.
type RecordChunk struct {
	rd        *Reader
	remaining uint64
	closed    bool
}

// Len returns the number of payload bytes not yet read.
func (c *RecordChunk) Len() uint64 { return c.remaining }

// IsEmpty reports whether the payload is exhausted.
func (c *RecordChunk) IsEmpty() bool { return c.remaining == 0 }

// Read implements io.Reader, bounded by the record's declared length.
func (c *RecordChunk) Read(p []byte) (int, error) {
	if c.closed || c.remaining == 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if uint64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.rd.rt.readOnce(c.rd.r, p)
	c.remaining -= uint64(n)
	if err == io.EOF && c.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// Close drains any unread payload bytes and releases the chunk. It is
// idempotent; the owning Reader calls it before advancing to the next
// record.
func (c *RecordChunk) Close() error {
	if c.closed {
		return nil
	}
	for c.remaining > 0 {
		buf := c.rd.scratch[:]
		if c.remaining < uint64(len(buf)) {
			buf = buf[:c.remaining]
		}
		n, err := c.rd.rt.readFull(c.rd.r, buf)
		c.remaining -= uint64(n)
		if err != nil {
			return unexpectedEOF(err)
		}
	}
	c.closed = true
	return nil
}
