// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

type streamState uint8

const (
	stateUninit streamState = iota
	stateActive
	stateFinished
	stateFailed
)

// containerFrame is one open container: the count of immediate children
// still expected and the container's identity.
type containerFrame struct {
	remaining uint16
	id        RecordID
}

// Reader consumes an MSRF stream record by record.
//
// A Reader starts uninitialised; Init consumes and validates the stream
// header. ReadRecord then yields each record's metadata together with a
// bounded RecordChunk for its payload, and io.EOF once the end-of-stream
// marker is reached. Only one RecordChunk is live at a time: starting the
// next record drains and releases the previous one.
//
// After any error other than io.EOF the Reader is invalid and keeps
// returning the same error. A Reader must not be shared between goroutines.
type Reader struct {
	r     io.Reader
	rt    retrier
	codec frameCodec
	opts  Options

	state streamState
	err   error
	hdr   Header

	chunk      *RecordChunk
	guardOwed  bool
	containers []containerFrame

	scratch [4096]byte
}

// NewReader returns a Reader over r. The stream header is not touched until
// Init.
func NewReader(r io.Reader, opts ...Option) *Reader {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Reader{
		r:    r,
		rt:   retrier{delay: o.RetryDelay},
		opts: o,
	}
}

// Init reads and validates the stream header. It fails with ErrMagic,
// ErrVersion or ErrGuard on a malformed or unsupported prelude.
func (rd *Reader) Init() error {
	if rd.r == nil {
		return ErrInvalidArgument
	}
	if rd.state != stateUninit {
		return rd.fail(ErrInvalidArgument)
	}

	var buf [headerLen]byte
	if _, err := rd.rt.readFull(rd.r, buf[:]); err != nil {
		return rd.fail(unexpectedEOF(err))
	}
	hdr, err := decodeHeader(buf)
	if err != nil {
		return rd.fail(err)
	}
	codec, err := newFrameCodec(hdr.Version)
	if err != nil {
		return rd.fail(err)
	}

	rd.hdr = hdr
	rd.codec = codec
	rd.state = stateActive
	return nil
}

// Header returns the decoded stream header. Valid after Init.
func (rd *Reader) Header() Header { return rd.hdr }

// ReadRecord returns the next record's metadata and a bounded reader for
// its payload. At end of stream it returns io.EOF; afterwards, ErrIsEOS.
//
// The returned chunk is owned by the Reader: the next ReadRecord call
// drains whatever the caller left unread and consumes the frame's guard
// byte before advancing.
func (rd *Reader) ReadRecord() (RecordMeta, *RecordChunk, error) {
	switch rd.state {
	case stateUninit:
		return RecordMeta{}, nil, ErrInvalidArgument
	case stateFinished:
		return RecordMeta{}, nil, ErrIsEOS
	case stateFailed:
		return RecordMeta{}, nil, rd.err
	}

	if err := rd.closePrevious(); err != nil {
		return RecordMeta{}, nil, rd.fail(err)
	}

	// Containers completed by the previous record close now, so Parents
	// kept reporting them as ancestors while that record was current.
	for n := len(rd.containers); n > 0 && rd.containers[n-1].remaining == 0; n = len(rd.containers) {
		rd.containers = rd.containers[:n-1]
	}

	meta, err := rd.codec.readMeta(rd.rt, rd.r)
	if err != nil {
		return RecordMeta{}, nil, rd.fail(unexpectedEOF(err))
	}

	if meta.IsEOS() {
		if len(rd.containers) > 0 {
			return RecordMeta{}, nil, rd.fail(ErrUnexpectedEOS)
		}
		rd.state = stateFinished
		return meta, nil, io.EOF
	}

	if rd.opts.ReadLimit > 0 && meta.Length > rd.opts.ReadLimit {
		return RecordMeta{}, nil, rd.fail(&LengthError{Length: meta.Length})
	}

	if n := len(rd.containers); n > 0 {
		rd.containers[n-1].remaining--
	}
	if meta.ID.IsContainer() && meta.Contained > 0 {
		rd.containers = append(rd.containers, containerFrame{
			remaining: meta.Contained,
			id:        meta.ID,
		})
	}

	rd.chunk = &RecordChunk{rd: rd, remaining: meta.Length}
	rd.guardOwed = true
	return meta, rd.chunk, nil
}

// closePrevious drains the outstanding chunk and eats the frame's guard.
func (rd *Reader) closePrevious() error {
	if rd.chunk != nil {
		if err := rd.chunk.Close(); err != nil {
			return err
		}
		rd.chunk = nil
	}
	if rd.guardOwed {
		if _, err := rd.rt.readFull(rd.r, rd.scratch[:1]); err != nil {
			return unexpectedEOF(err)
		}
		if rd.scratch[0] != guardByte {
			return &GuardError{Found: rd.scratch[0]}
		}
		rd.guardOwed = false
	}
	return nil
}

// CurrentParent returns the innermost open container. For a record just
// returned by ReadRecord, that is its direct parent; containers stay open
// through their last child and close when the reader advances past it.
func (rd *Reader) CurrentParent() (RecordID, bool) {
	if n := len(rd.containers); n > 0 {
		return rd.containers[n-1].id, true
	}
	return RecordID{}, false
}

// Parents returns the open-container stack top-down: the outermost
// container first. The slice is a copy.
func (rd *Reader) Parents() []RecordID {
	if len(rd.containers) == 0 {
		return nil
	}
	out := make([]RecordID, len(rd.containers))
	for i, c := range rd.containers {
		out[i] = c.id
	}
	return out
}

// Depth returns the number of open containers.
func (rd *Reader) Depth() int { return len(rd.containers) }

func (rd *Reader) fail(err error) error {
	rd.state = stateFailed
	rd.err = err
	return err
}
