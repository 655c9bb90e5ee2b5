// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

// frameCodec encodes and decodes the per-record framing of one version.
//
// Versions form a closed set: newFrameCodec is the only place they
// enumerate, and adding a version means adding a case there plus an
// implementation file. The public surface does not change.
type frameCodec interface {
	version() uint16

	// metaLen reports the encoded size of the metadata prefix for m.
	metaLen(m RecordMeta) int

	writeMeta(rt retrier, w io.Writer, m RecordMeta) error
	readMeta(rt retrier, r io.Reader) (RecordMeta, error)
}

func newFrameCodec(version uint16) (frameCodec, error) {
	switch version {
	case 0:
		return codecV0{}, nil
	default:
		return nil, &VersionError{Version: version}
	}
}

// encodeHeader renders the stream prelude shared by all versions.
func encodeHeader(h Header) [headerLen]byte {
	var buf [headerLen]byte
	c := mutCursor{buf: buf[:]}
	_ = c.insert(magicBytes[:])
	_ = c.insertU16(h.Version)
	_ = c.insertU8(guardByte)
	return buf
}

// decodeHeader validates the stream prelude and extracts the version. It
// accepts versions it has no codec for — whether the version is usable is
// the caller's question, answered by newFrameCodec.
func decodeHeader(buf [headerLen]byte) (Header, error) {
	c := readCursor{buf: buf[:]}
	magic, _ := c.extract(len(magicBytes))
	if [4]byte(magic) != magicBytes {
		return Header{}, &MagicError{Found: [4]byte(magic)}
	}
	version, _ := c.extractU16()
	guard, _ := c.extractU8()
	if guard != guardByte {
		return Header{}, &GuardError{Found: guard}
	}
	return Header{Version: version}, nil
}
