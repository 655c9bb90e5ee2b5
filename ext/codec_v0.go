// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ext

import (
	"encoding/binary"
	"io"

	"code.hybscloud.com/msrf"
)

// Version 0 payload encodings, little-endian:
//
//	SourceAdd    = id:u16 | version:u16 | name:utf8 (to end of payload)
//	SourceRemove = id:u16
const (
	sourceAddMinLen = 4
	sourceRemoveLen = 2
)

type serialiserV0 struct{}

func (serialiserV0) WriteSourceAdd(w io.Writer, rec SourceAdd) error {
	var buf [sourceAddMinLen]byte
	binary.LittleEndian.PutUint16(buf[0:], rec.ID)
	binary.LittleEndian.PutUint16(buf[2:], rec.Version)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, rec.Name)
	return err
}

func (serialiserV0) WriteSourceRemove(w io.Writer, rec SourceRemove) error {
	var buf [sourceRemoveLen]byte
	binary.LittleEndian.PutUint16(buf[:], rec.ID)
	_, err := w.Write(buf[:])
	return err
}

func (s serialiserV0) WriteRecord(w io.Writer, rec Record) error {
	switch r := rec.(type) {
	case SourceAdd:
		return s.WriteSourceAdd(w, r)
	case SourceRemove:
		return s.WriteSourceRemove(w, r)
	default:
		return &UnexpectedTypeError{ID: rec.TypeID()}
	}
}

type deserialiserV0 struct{}

func (deserialiserV0) ReadSourceAdd(chunk *msrf.RecordChunk) (SourceAdd, error) {
	if chunk.Len() < sourceAddMinLen {
		return SourceAdd{}, ErrValueLength
	}
	var buf [sourceAddMinLen]byte
	if _, err := io.ReadFull(chunk, buf[:]); err != nil {
		return SourceAdd{}, err
	}
	// The remaining bound of the chunk is the name length.
	name := make([]byte, chunk.Len())
	if _, err := io.ReadFull(chunk, name); err != nil {
		return SourceAdd{}, err
	}
	return SourceAdd{
		ID:      binary.LittleEndian.Uint16(buf[0:]),
		Version: binary.LittleEndian.Uint16(buf[2:]),
		Name:    string(name),
	}, nil
}

func (deserialiserV0) ReadSourceRemove(chunk *msrf.RecordChunk) (SourceRemove, error) {
	if chunk.Len() < sourceRemoveLen {
		return SourceRemove{}, ErrValueLength
	}
	var buf [sourceRemoveLen]byte
	if _, err := io.ReadFull(chunk, buf[:]); err != nil {
		return SourceRemove{}, err
	}
	return SourceRemove{ID: binary.LittleEndian.Uint16(buf[:])}, nil
}

func (d deserialiserV0) ReadRecord(typeID uint16, chunk *msrf.RecordChunk) (Record, error) {
	switch typeID {
	case TypeSourceAdd:
		rec, err := d.ReadSourceAdd(chunk)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case TypeSourceRemove:
		rec, err := d.ReadSourceRemove(chunk)
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, &UnexpectedTypeError{ID: typeID}
	}
}
