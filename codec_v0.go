// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import (
	"io"

	"code.hybscloud.com/msrf/internal/vint"
)

// Version 0 record metadata wire format, all little-endian:
//
//	source_id : u16        ; 0xFFFF = EOS, no further fields
//	type_id   : u16        ; bit 15 = container flag
//	length    : varint     ; payload byte count
//	[contained : u16]      ; present iff container flag set
const (
	metaEOSLen = 2
	metaMaxLen = 2 + 2 + vint.MaxLen + 2
)

type codecV0 struct{}

func (codecV0) version() uint16 { return 0 }

func (codecV0) metaLen(m RecordMeta) int {
	if m.IsEOS() {
		return metaEOSLen
	}
	n := 4 + vint.EncodedLen(m.Length)
	if m.ID.IsContainer() {
		n += 2
	}
	return n
}

func (c codecV0) writeMeta(rt retrier, w io.Writer, m RecordMeta) error {
	var buf [metaMaxLen]byte
	cur := mutCursor{buf: buf[:]}

	if err := cur.insertU16(m.ID.Source); err != nil {
		return err
	}
	if !m.IsEOS() {
		if err := cur.insertU16(m.ID.Type); err != nil {
			return err
		}
		if err := cur.insertVarint(m.Length); err != nil {
			return err
		}
		if m.ID.IsContainer() {
			if err := cur.insertU16(m.Contained); err != nil {
				return err
			}
		}
	}

	n := c.metaLen(m)
	_, err := rt.writeAll(w, buf[:n])
	return err
}

func (codecV0) readMeta(rt retrier, r io.Reader) (RecordMeta, error) {
	var buf [metaMaxLen]byte

	if _, err := rt.readFull(r, buf[:2]); err != nil {
		return RecordMeta{}, err
	}
	cur := readCursor{buf: buf[:2]}
	source, _ := cur.extractU16()
	if source == SourceEOS {
		return RecordMeta{ID: RecordID{Source: SourceEOS}}, nil
	}

	// type_id plus the varint tag byte; the tag alone tells how much more
	// of the length encoding follows.
	if _, err := rt.readFull(r, buf[:3]); err != nil {
		return RecordMeta{}, unexpectedEOF(err)
	}
	cur = readCursor{buf: buf[:3]}
	typ, _ := cur.extractU16()
	tag, _ := cur.extractU8()

	rest := vint.Len(tag) - 1
	varBuf := buf[:1+rest]
	varBuf[0] = tag
	if rest > 0 {
		if _, err := rt.readFull(r, varBuf[1:]); err != nil {
			return RecordMeta{}, unexpectedEOF(err)
		}
	}
	length, n := vint.Decode(varBuf)
	if n < 0 {
		return RecordMeta{}, need(-n)
	}

	meta := RecordMeta{ID: RecordID{Source: source, Type: typ}, Length: length}
	if meta.ID.IsContainer() {
		if _, err := rt.readFull(r, buf[:2]); err != nil {
			return RecordMeta{}, unexpectedEOF(err)
		}
		cur = readCursor{buf: buf[:2]}
		meta.Contained, _ = cur.extractU16()
	}
	return meta, nil
}

// unexpectedEOF upgrades a clean EOF mid-structure to io.ErrUnexpectedEOF.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
