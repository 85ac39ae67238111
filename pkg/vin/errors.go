package vin

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a VIN failure.
// The numeric values match the error codes of the C interface.
type ErrorKind int

// Error kinds.
const (
	// KindIncorrectLength means the input is not exactly 17 characters long.
	KindIncorrectLength ErrorKind = iota
	// KindInvalidCharacters means the input contains a character outside [A-HJ-NPR-Z0-9].
	KindInvalidCharacters
	// KindChecksumError means the check digit at position 9 does not match.
	KindChecksumError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindIncorrectLength:
		return "IncorrectLength"
	case KindInvalidCharacters:
		return "InvalidCharacters"
	case KindChecksumError:
		return "ChecksumError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors for errors.Is matching.
var (
	ErrIncorrectLength   = errors.New("incorrect VIN length")
	ErrInvalidCharacters = errors.New("invalid VIN characters")
	ErrChecksum          = errors.New("VIN checksum mismatch")
)

// Error is a structural validation failure.
type Error struct {
	Kind ErrorKind

	// Length is the number of characters in the input (IncorrectLength only).
	Length int

	// Position is the 1-based position of the first invalid character
	// and Char the character found there (InvalidCharacters only).
	Position int
	Char     rune
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIncorrectLength:
		return fmt.Sprintf("%s: got %d characters, want %d", ErrIncorrectLength, e.Length, Length)
	case KindInvalidCharacters:
		return fmt.Sprintf("%s: %q at position %d", ErrInvalidCharacters, e.Char, e.Position)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the sentinel for the error kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindIncorrectLength:
		return ErrIncorrectLength
	case KindInvalidCharacters:
		return ErrInvalidCharacters
	default:
		return nil
	}
}

// ChecksumError reports a check digit mismatch.
type ChecksumError struct {
	// Expected is the check character computed from the other 16 positions.
	Expected byte
	// Received is the character found at position 9.
	Received byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: expected %q, received %q", ErrChecksum, e.Expected, e.Received)
}

// Unwrap returns ErrChecksum.
func (e *ChecksumError) Unwrap() error { return ErrChecksum }

// KindOf returns the ErrorKind carried by err.
// The second result is false when err is nil or not a VIN error.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return 0, false
	}
	var ce *ChecksumError
	if errors.As(err, &ce) {
		return KindChecksumError, true
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	switch {
	case errors.Is(err, ErrIncorrectLength):
		return KindIncorrectLength, true
	case errors.Is(err, ErrInvalidCharacters):
		return KindInvalidCharacters, true
	case errors.Is(err, ErrChecksum):
		return KindChecksumError, true
	}
	return 0, false
}
