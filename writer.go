// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

// Writer produces an MSRF stream record by record.
//
// A Writer starts uninitialised; Init writes the stream header. WriteRecord
// then emits a record's metadata prefix and hands back a bounded RecordSink
// for its payload. Only one RecordSink is live at a time: starting the next
// record pads, guards and releases the previous one. Finish writes the
// end-of-stream marker; afterwards every operation fails with ErrIsEOS.
//
// Calls made before a successful Init, and WriteRecord calls rejecting end-of-stream
// metadata or a Contained count without the container flag, return
// ErrInvalidArgument and leave the Writer's state unchanged. After any other
// error from Init, WriteRecord or Finish the Writer is invalid and keeps
// returning the same error. A Writer must not be shared between goroutines.
type Writer struct {
	w     io.Writer
	rt    retrier
	codec frameCodec
	opts  Options

	state streamState
	err   error

	sink       *RecordSink
	containers []containerFrame

	zeros [512]byte
}

// NewWriter returns a Writer over w. Nothing is written until Init.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Writer{
		w:    w,
		rt:   retrier{delay: o.RetryDelay},
		opts: o,
	}
}

// Init writes the stream header using the configured version. It fails with
// ErrVersion when the version has no codec.
func (wr *Writer) Init() error {
	if wr.w == nil {
		return ErrInvalidArgument
	}
	if wr.state != stateUninit {
		return wr.fail(ErrInvalidArgument)
	}

	codec, err := newFrameCodec(wr.opts.Version)
	if err != nil {
		return wr.fail(err)
	}
	buf := encodeHeader(Header{Version: wr.opts.Version})
	if _, err := wr.rt.writeAll(wr.w, buf[:]); err != nil {
		return wr.fail(err)
	}

	wr.codec = codec
	wr.state = stateActive
	return nil
}

// WriteRecord emits the metadata prefix for meta and returns a sink
// accepting up to meta.Length payload bytes. The sink's guard byte is
// guaranteed on release. End-of-stream metadata is rejected: use Finish.
func (wr *Writer) WriteRecord(meta RecordMeta) (*RecordSink, error) {
	switch wr.state {
	case stateUninit:
		return nil, ErrInvalidArgument
	case stateFinished:
		return nil, ErrIsEOS
	case stateFailed:
		return nil, wr.err
	}
	if meta.IsEOS() {
		return nil, ErrInvalidArgument
	}
	if !meta.ID.IsContainer() && meta.Contained != 0 {
		return nil, ErrInvalidArgument
	}

	if err := wr.closePrevious(); err != nil {
		return nil, wr.fail(err)
	}

	for n := len(wr.containers); n > 0 && wr.containers[n-1].remaining == 0; n = len(wr.containers) {
		wr.containers = wr.containers[:n-1]
	}
	if n := len(wr.containers); n > 0 {
		wr.containers[n-1].remaining--
	}
	if meta.ID.IsContainer() && meta.Contained > 0 {
		wr.containers = append(wr.containers, containerFrame{
			remaining: meta.Contained,
			id:        meta.ID,
		})
	}

	if err := wr.codec.writeMeta(wr.rt, wr.w, meta); err != nil {
		return nil, wr.fail(err)
	}

	wr.sink = &RecordSink{wr: wr, remaining: meta.Length}
	return wr.sink, nil
}

// WriteRecordFrom composes metadata from rec's self-reported type and
// encoded length, streams its payload and closes the frame in one call.
func (wr *Writer) WriteRecordFrom(source uint16, rec WireRecord) error {
	meta := NewRecordMeta(source, rec.TypeID(), uint64(rec.EncodedLen()))
	sink, err := wr.WriteRecord(meta)
	if err != nil {
		return err
	}
	encErr := rec.EncodeTo(sink)
	// The frame closes whether or not the encoder succeeded: a short payload
	// is padded so the stream stays parseable.
	if err := sink.Close(); err != nil {
		return wr.fail(err)
	}
	return encErr
}

// WriteContainer emits an empty-payload container record announcing
// contained immediate children.
func (wr *Writer) WriteContainer(source, typ uint16, contained uint16) error {
	sink, err := wr.WriteRecord(NewContainerMeta(source, typ, 0, contained))
	if err != nil {
		return err
	}
	if err := sink.Close(); err != nil {
		return wr.fail(err)
	}
	return nil
}

// WriteContainerFrom emits a container record whose payload comes from rec,
// announcing contained immediate children.
func (wr *Writer) WriteContainerFrom(source uint16, rec WireRecord, contained uint16) error {
	meta := NewContainerMeta(source, rec.TypeID(), uint64(rec.EncodedLen()), contained)
	sink, err := wr.WriteRecord(meta)
	if err != nil {
		return err
	}
	encErr := rec.EncodeTo(sink)
	if err := sink.Close(); err != nil {
		return wr.fail(err)
	}
	return encErr
}

// Finish closes the current frame if one is open, writes the end-of-stream
// marker and flushes. It refuses with ErrUnexpectedEOS while a container's
// declared child count is unsatisfied.
func (wr *Writer) Finish() error {
	switch wr.state {
	case stateUninit:
		return ErrInvalidArgument
	case stateFinished:
		return ErrIsEOS
	case stateFailed:
		return wr.err
	}

	if err := wr.closePrevious(); err != nil {
		return wr.fail(err)
	}
	for n := len(wr.containers); n > 0 && wr.containers[n-1].remaining == 0; n = len(wr.containers) {
		wr.containers = wr.containers[:n-1]
	}
	if len(wr.containers) > 0 {
		return wr.fail(ErrUnexpectedEOS)
	}

	if err := wr.codec.writeMeta(wr.rt, wr.w, RecordMeta{ID: RecordID{Source: SourceEOS}}); err != nil {
		return wr.fail(err)
	}
	if err := wr.flush(); err != nil {
		return wr.fail(err)
	}
	wr.state = stateFinished
	return nil
}

func (wr *Writer) closePrevious() error {
	if wr.sink == nil {
		return nil
	}
	err := wr.sink.Close()
	wr.sink = nil
	return err
}

// flush forwards to the transport when it supports flushing (bufio.Writer,
// compressing writers and the like).
func (wr *Writer) flush() error {
	if f, ok := wr.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (wr *Writer) fail(err error) error {
	wr.state = stateFailed
	wr.err = err
	return err
}
