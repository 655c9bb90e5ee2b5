// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import (
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"time"

	"code.hybscloud.com/msrf/internal/vint"
)

// needErr is the buffer-layer deficit: how many more bytes the cursor needed.
// It never crosses the package boundary; frame decoding reads exact counts
// from the transport first, so a deficit here is a codec bug surfaced loudly.
type needErr int

func (e needErr) Error() string {
	return fmt.Sprintf("msrf: need %d more bytes", int(e))
}

func need(n int) error { return needErr(n) }

// mutCursor writes through a caller-supplied buffer, retargeting itself to
// the remainder after each insert. It never allocates.
type mutCursor struct {
	buf []byte
}

func (c *mutCursor) insert(data []byte) error {
	if len(data) > len(c.buf) {
		return need(len(data) - len(c.buf))
	}
	copy(c.buf, data)
	c.buf = c.buf[len(data):]
	return nil
}

func (c *mutCursor) insertU8(v uint8) error {
	if len(c.buf) < 1 {
		return need(1)
	}
	c.buf[0] = v
	c.buf = c.buf[1:]
	return nil
}

func (c *mutCursor) insertU16(v uint16) error {
	if len(c.buf) < 2 {
		return need(2 - len(c.buf))
	}
	binary.LittleEndian.PutUint16(c.buf, v)
	c.buf = c.buf[2:]
	return nil
}

func (c *mutCursor) insertU32(v uint32) error {
	if len(c.buf) < 4 {
		return need(4 - len(c.buf))
	}
	binary.LittleEndian.PutUint32(c.buf, v)
	c.buf = c.buf[4:]
	return nil
}

func (c *mutCursor) insertU64(v uint64) error {
	if len(c.buf) < 8 {
		return need(8 - len(c.buf))
	}
	binary.LittleEndian.PutUint64(c.buf, v)
	c.buf = c.buf[8:]
	return nil
}

func (c *mutCursor) insertVarint(v uint64) error {
	var tmp [vint.MaxLen]byte
	n := vint.Encode(&tmp, v)
	return c.insert(tmp[:n])
}

// readCursor reads through a caller-supplied buffer, retargeting itself to
// the remainder after each extract.
type readCursor struct {
	buf []byte
}

func (c *readCursor) extract(n int) ([]byte, error) {
	if n > len(c.buf) {
		return nil, need(n - len(c.buf))
	}
	out := c.buf[:n]
	c.buf = c.buf[n:]
	return out, nil
}

func (c *readCursor) skip(n int) error {
	if n > len(c.buf) {
		return need(n - len(c.buf))
	}
	c.buf = c.buf[n:]
	return nil
}

func (c *readCursor) extractU8() (uint8, error) {
	if len(c.buf) < 1 {
		return 0, need(1)
	}
	v := c.buf[0]
	c.buf = c.buf[1:]
	return v, nil
}

func (c *readCursor) extractU16() (uint16, error) {
	if len(c.buf) < 2 {
		return 0, need(2 - len(c.buf))
	}
	v := binary.LittleEndian.Uint16(c.buf)
	c.buf = c.buf[2:]
	return v, nil
}

func (c *readCursor) extractU32() (uint32, error) {
	if len(c.buf) < 4 {
		return 0, need(4 - len(c.buf))
	}
	v := binary.LittleEndian.Uint32(c.buf)
	c.buf = c.buf[4:]
	return v, nil
}

func (c *readCursor) extractU64() (uint64, error) {
	if len(c.buf) < 8 {
		return 0, need(8 - len(c.buf))
	}
	v := binary.LittleEndian.Uint64(c.buf)
	c.buf = c.buf[8:]
	return v, nil
}

func (c *readCursor) extractVarint() (uint64, error) {
	v, n := vint.Decode(c.buf)
	if n < 0 {
		return 0, need(-n)
	}
	c.buf = c.buf[n:]
	return v, nil
}

// retrier applies the configured would-block policy to raw transport calls.
type retrier struct {
	delay time.Duration
}

func (rt retrier) waitOnceOnWouldBlock() bool {
	// returns whether the caller should retry
	if rt.delay < 0 {
		return false
	}
	if rt.delay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(rt.delay)
	return true
}

func (rt retrier) readOnce(r io.Reader, p []byte) (n int, err error) {
	for {
		n, err = r.Read(p)
		// Guard against broken Readers that violate the io.Reader contract by
		// returning (0, nil) on a non-empty buffer. Without this, the stream
		// state machine can spin indefinitely.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !rt.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (rt retrier) writeOnce(w io.Writer, p []byte) (n int, err error) {
	for {
		n, err = w.Write(p)
		// Guard against broken Writers that violate the io.Writer contract by
		// returning (0, nil) on a non-empty buffer.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !rt.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// readFull fills p entirely. A clean EOF before the first byte is io.EOF; a
// truncation mid-buffer is io.ErrUnexpectedEOF, as in io.ReadFull.
func (rt retrier) readFull(r io.Reader, p []byte) (int, error) {
	off := 0
	for off < len(p) {
		n, err := rt.readOnce(r, p[off:])
		off += n
		if err != nil {
			if err == io.EOF {
				if off == 0 {
					return 0, io.EOF
				}
				if off < len(p) {
					return off, io.ErrUnexpectedEOF
				}
				break
			}
			return off, err
		}
	}
	return off, nil
}

// writeAll writes p entirely, honoring the io.Writer short-write contract.
func (rt retrier) writeAll(w io.Writer, p []byte) (int, error) {
	off := 0
	for off < len(p) {
		n, err := rt.writeOnce(w, p[off:])
		off += n
		if err != nil {
			return off, err
		}
		if n == 0 {
			// Avoid potential infinite loop on pathological writers.
			return off, io.ErrShortWrite
		}
	}
	return off, nil
}
