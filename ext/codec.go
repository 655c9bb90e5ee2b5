// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ext

import (
	"io"

	"code.hybscloud.com/msrf"
)

// RawSerialiser writes this family's payload encodings. Implementations are
// per-version; NewSerialiser picks one.
type RawSerialiser interface {
	WriteSourceAdd(w io.Writer, rec SourceAdd) error
	WriteSourceRemove(w io.Writer, rec SourceRemove) error

	// WriteRecord dispatches on the record's concrete type.
	WriteRecord(w io.Writer, rec Record) error
}

// RawDeserialiser reads this family's payload encodings from a bounded
// record chunk. The chunk's bound is part of the encoding: it gives the
// name length for SourceAdd.
type RawDeserialiser interface {
	ReadSourceAdd(chunk *msrf.RecordChunk) (SourceAdd, error)
	ReadSourceRemove(chunk *msrf.RecordChunk) (SourceRemove, error)

	// ReadRecord dispatches on the frame's type id.
	ReadRecord(typeID uint16, chunk *msrf.RecordChunk) (Record, error)
}

// NewSerialiser returns the payload serialiser for version. Versions form a
// closed set; an unknown one reports a msrf.VersionError.
func NewSerialiser(version uint16) (RawSerialiser, error) {
	switch version {
	case 0:
		return serialiserV0{}, nil
	default:
		return nil, &msrf.VersionError{Version: version}
	}
}

// NewDeserialiser returns the payload deserialiser for version.
func NewDeserialiser(version uint16) (RawDeserialiser, error) {
	switch version {
	case 0:
		return deserialiserV0{}, nil
	default:
		return nil, &msrf.VersionError{Version: version}
	}
}
