// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ext ships the demonstration record family for MSRF streams: the
// source-management records every stream needs so readers can resolve
// source ids back to names. It doubles as the template for user codecs —
// the core owns all payload framing, a codec only turns payload bytes into
// values and back.
package ext

import (
	"errors"
	"fmt"
	"io"

	"code.hybscloud.com/msrf"
)

const (
	// SourceName is the canonical registrar name of this record family.
	SourceName = "msrf-ext"

	// CurrentVersion is the newest payload encoding this package emits.
	CurrentVersion uint16 = 0

	// TypeSourceAdd and TypeSourceRemove are the family's record type ids.
	TypeSourceAdd    uint16 = 0x0000
	TypeSourceRemove uint16 = 0x0001
)

var (
	// ErrValueLength reports a payload too small for its record type.
	ErrValueLength = errors.New("msrfext: value too small")

	// ErrUnexpectedType reports a type id this family does not define.
	ErrUnexpectedType = errors.New("msrfext: unexpected type")
)

// UnexpectedTypeError carries the unknown type id. It unwraps to
// ErrUnexpectedType.
type UnexpectedTypeError struct {
	ID uint16
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("msrfext: unexpected type %d", e.ID)
}

func (e *UnexpectedTypeError) Unwrap() error { return ErrUnexpectedType }

// Record is one of the family's record values.
type Record interface {
	msrf.WireRecord
	extRecord()
}

// SourceAdd announces a source registration: the id it was assigned, the
// source's version and its name. The name runs to the end of the payload;
// its length is implied by the record frame.
type SourceAdd struct {
	ID      uint16
	Version uint16
	Name    string
}

func (SourceAdd) extRecord() {}

// TypeID implements msrf.WireRecord.
func (SourceAdd) TypeID() uint16 { return TypeSourceAdd }

// EncodedLen implements msrf.SizedRecord.
func (r SourceAdd) EncodedLen() int { return 4 + len(r.Name) }

// EncodeTo implements msrf.WireRecord using the current payload encoding.
func (r SourceAdd) EncodeTo(w io.Writer) error {
	return serialiserV0{}.WriteSourceAdd(w, r)
}

// SourceRemove announces that a source id was retired.
type SourceRemove struct {
	ID uint16
}

func (SourceRemove) extRecord() {}

// TypeID implements msrf.WireRecord.
func (SourceRemove) TypeID() uint16 { return TypeSourceRemove }

// EncodedLen implements msrf.SizedRecord.
func (SourceRemove) EncodedLen() int { return 2 }

// EncodeTo implements msrf.WireRecord using the current payload encoding.
func (r SourceRemove) EncodeTo(w io.Writer) error {
	return serialiserV0{}.WriteSourceRemove(w, r)
}

// Apply replays a decoded record into a registrar: SourceAdd registers at
// the id the stream assigned (the root slot included), SourceRemove retires
// it. Removing an id the registrar never saw is a no-op; a conflicting add
// reports the occupant via SourceExistsError.
func Apply(reg *msrf.SourceRegistrar, rec Record) error {
	switch r := rec.(type) {
	case SourceAdd:
		var existing string
		var ok bool
		if r.ID == msrf.RootSourceID {
			existing, ok = reg.RegisterRoot(r.Name, r.Version)
		} else {
			existing, ok = reg.RegisterExisting(r.ID, r.Name, r.Version)
		}
		if !ok {
			return &msrf.SourceExistsError{Name: existing, ID: r.ID}
		}
		return nil
	case SourceRemove:
		reg.RemoveByID(r.ID)
		return nil
	default:
		return &UnexpectedTypeError{ID: rec.TypeID()}
	}
}
