// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports an invalid configuration or nil reader/writer.
	ErrInvalidArgument = errors.New("msrf: invalid argument")

	// ErrTooLong reports a payload write past the declared record length.
	ErrTooLong = errors.New("msrf: payload too long")

	// ErrMagic reports a header prelude mismatch.
	ErrMagic = errors.New("msrf: invalid magic bytes")

	// ErrGuard reports a nonzero byte where a guard was expected.
	ErrGuard = errors.New("msrf: invalid guard byte")

	// ErrVersion reports a framing version with no codec.
	ErrVersion = errors.New("msrf: unsupported version")

	// ErrLength reports a structurally impossible record length.
	ErrLength = errors.New("msrf: invalid length")

	// ErrIsEOS reports an operation on a stream that already reached its
	// end-of-stream marker.
	ErrIsEOS = errors.New("msrf: stream is finished")

	// ErrUnexpectedEOS reports a premature end-of-stream marker, such as an
	// EOS inside a container whose declared child count is unsatisfied.
	ErrUnexpectedEOS = errors.New("msrf: unexpected end of stream")

	// ErrRegistryFull reports source-id exhaustion in a SourceRegistrar.
	ErrRegistryFull = errors.New("msrf: source registry full")
)

// MagicError carries the bytes found in place of the "MSRF" prelude.
// It unwraps to ErrMagic.
type MagicError struct {
	Found [4]byte
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("msrf: invalid magic bytes % X", e.Found)
}

func (e *MagicError) Unwrap() error { return ErrMagic }

// GuardError carries the byte found in place of a 0x00 guard.
// It unwraps to ErrGuard.
type GuardError struct {
	Found byte
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("msrf: invalid guard byte %#02x", e.Found)
}

func (e *GuardError) Unwrap() error { return ErrGuard }

// VersionError carries the unsupported framing version found in the header.
// It unwraps to ErrVersion.
type VersionError struct {
	Version uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("msrf: unsupported version %d", e.Version)
}

func (e *VersionError) Unwrap() error { return ErrVersion }

// LengthError carries a declared record length that exceeds the Reader's
// configured read limit. It unwraps to ErrLength.
type LengthError struct {
	Length uint64
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("msrf: invalid length %d", e.Length)
}

func (e *LengthError) Unwrap() error { return ErrLength }

// SourceExistsError reports a registrar name collision and carries the id
// the name is already registered under.
type SourceExistsError struct {
	Name string
	ID   uint16
}

func (e *SourceExistsError) Error() string {
	return fmt.Sprintf("msrf: source %q already registered as id %d", e.Name, e.ID)
}
