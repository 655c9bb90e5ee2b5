// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

// Forwarder relays records from a Reader to a Writer while preserving frame
// boundaries: each forwarded record keeps its identity, container child
// count and payload bytes.
//
// Semantics:
//   - One call to ForwardRecord processes exactly one record. It returns
//     io.EOF once the source's end-of-stream marker is reached; the marker
//     itself is not forwarded (call dst.Finish, or use Forward).
//   - Forward drains the source through its end-of-stream marker and then
//     finishes the destination.
//
// Both sides must be initialised. The destination's container accounting is
// driven by the forwarded metadata, so relaying a well-formed source yields
// a well-formed destination.
type Forwarder struct {
	src *Reader
	dst *Writer
}

// NewForwarder returns a Forwarder relaying src into dst.
func NewForwarder(src *Reader, dst *Writer) *Forwarder {
	return &Forwarder{src: src, dst: dst}
}

// ForwardRecord relays one record and returns its metadata. At the source's
// end of stream it returns io.EOF without touching the destination.
func (f *Forwarder) ForwardRecord() (RecordMeta, error) {
	if f.src == nil || f.dst == nil {
		return RecordMeta{}, ErrInvalidArgument
	}

	meta, chunk, err := f.src.ReadRecord()
	if err != nil {
		return RecordMeta{}, err
	}

	sink, err := f.dst.WriteRecord(meta)
	if err != nil {
		return RecordMeta{}, err
	}
	if _, err := io.Copy(sink, chunk); err != nil {
		// The sink pads the remainder on close; the frame stays valid even
		// though the copy broke off.
		_ = sink.Close()
		return RecordMeta{}, err
	}
	if err := sink.Close(); err != nil {
		return RecordMeta{}, err
	}
	return meta, nil
}

// Forward relays every remaining record and finishes the destination.
// It returns the number of records forwarded.
func (f *Forwarder) Forward() (int, error) {
	var count int
	for {
		_, err := f.ForwardRecord()
		if err == io.EOF {
			return count, f.dst.Finish()
		}
		if err != nil {
			return count, err
		}
		count++
	}
}
