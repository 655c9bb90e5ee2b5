// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

// RecordSink is the bounded writer for one record's payload. It is handed
// out by Writer.WriteRecord and accepts at most the declared payload length.
//
// The sink holds the writer's transport until it is released: either
// explicitly via Close, or implicitly when the owning Writer starts the next
// record or finishes the stream. Releasing a sink with unwritten bytes
// zero-fills them up to the declared length and then emits the trailing
// guard byte, so even a payload encoder that returns early leaves a
// syntactically valid frame behind — wrong data, right framing.
type RecordSink struct {
	wr        *Writer
	remaining uint64
	closed    bool
}

// Len returns the number of payload bytes not yet written.
func (s *RecordSink) Len() uint64 { return s.remaining }

// Write implements io.Writer, bounded by the record's declared length.
// Bytes past the bound are clipped and reported with ErrTooLong.
func (s *RecordSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrTooLong
	}
	if len(p) == 0 {
		return 0, nil
	}
	clipped := false
	if uint64(len(p)) > s.remaining {
		p = p[:s.remaining]
		clipped = true
	}
	n, err := s.wr.rt.writeAll(s.wr.w, p)
	s.remaining -= uint64(n)
	if err != nil {
		return n, err
	}
	if clipped {
		return n, ErrTooLong
	}
	return n, nil
}

// Close zero-fills the unwritten remainder of the payload, writes the guard
// byte, and flushes the underlying writer when it supports flushing. It is
// idempotent; the owning Writer calls it before starting the next frame.
func (s *RecordSink) Close() error {
	if s.closed {
		return nil
	}
	for s.remaining > 0 {
		pad := s.wr.zeros[:]
		if s.remaining < uint64(len(pad)) {
			pad = pad[:s.remaining]
		}
		n, err := s.wr.rt.writeAll(s.wr.w, pad)
		s.remaining -= uint64(n)
		if err != nil {
			return err
		}
	}
	if _, err := s.wr.rt.writeAll(s.wr.w, s.wr.zeros[:1]); err != nil {
		return err
	}
	s.closed = true
	return s.wr.flush()
}
