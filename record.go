// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import "io"

const (
	// SourceEOS is the reserved source id that marks end-of-stream on the
	// wire. No record may carry it.
	SourceEOS uint16 = 0xFFFF

	// ContainerFlag is the type-id bit announcing a nested record group.
	ContainerFlag uint16 = 0x8000
)

// RecordID identifies a record: the source that produced it and the
// source-scoped type. Bit 15 of Type is the container flag; the remaining
// 15 bits carry the semantic type.
type RecordID struct {
	Source uint16
	Type   uint16
}

// Kind returns the semantic type with the container flag stripped.
func (id RecordID) Kind() uint16 { return id.Type &^ ContainerFlag }

// IsContainer reports whether the container flag is set.
func (id RecordID) IsContainer() bool { return id.Type&ContainerFlag != 0 }

// IsEOS reports whether id is the reserved end-of-stream marker.
func (id RecordID) IsEOS() bool { return id.Source == SourceEOS }

// RecordMeta is the decoded metadata prefix of one record frame.
//
// Length is the payload byte count, excluding the trailing guard byte.
// Contained is meaningful only when ID.IsContainer() holds; it is the exact
// count of immediate child records following this one.
type RecordMeta struct {
	ID        RecordID
	Length    uint64
	Contained uint16
}

// NewRecordMeta returns metadata for a plain record.
func NewRecordMeta(source, typ uint16, length uint64) RecordMeta {
	return RecordMeta{ID: RecordID{Source: source, Type: typ &^ ContainerFlag}, Length: length}
}

// NewContainerMeta returns metadata for a container record announcing
// contained immediate children.
func NewContainerMeta(source, typ uint16, length uint64, contained uint16) RecordMeta {
	return RecordMeta{
		ID:        RecordID{Source: source, Type: typ | ContainerFlag},
		Length:    length,
		Contained: contained,
	}
}

// IsEOS reports whether the metadata denotes the end-of-stream marker.
func (m RecordMeta) IsEOS() bool { return m.ID.IsEOS() }

// Header is the stream prelude. Version names the major framing version;
// only version 0 is currently defined.
type Header struct {
	Version uint16
}

// SizedRecord is implemented by values that know their encoded payload
// length up front, letting the writer compose frame metadata without
// buffering the payload.
type SizedRecord interface {
	EncodedLen() int
}

// WireRecord is the plug-in surface for user codecs: a record that can state
// its type id and stream its own payload bytes. The framing around the
// payload — metadata prefix, padding, guard byte — stays the writer's job.
type WireRecord interface {
	SizedRecord
	TypeID() uint16
	EncodeTo(w io.Writer) error
}
