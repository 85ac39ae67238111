// Package vin implements structural validation and check digit verification
// of 17-character Vehicle Identification Numbers (ISO 3779).
//
// All functions are pure and safe for concurrent use. Input is never
// normalized: lowercase letters are rejected, not upper-cased.
package vin

import "unicode/utf8"

const (
	// Length is the number of characters in a VIN.
	Length = 17

	// CheckDigitIndex is the zero-based index of the check digit (position 9).
	CheckDigitIndex = 8
)

// Alphabet lists the VIN characters in collation order:
// letters without I, O and Q, then digits 1-9 and 0.
const Alphabet = "ABCDEFGHJKLMNPRSTUVWXYZ1234567890"

// IsAllowed reports whether c may appear in a VIN.
func IsAllowed(c rune) bool {
	if c >= utf8.RuneSelf {
		return false
	}
	_, ok := Transliterate(byte(c))
	return ok
}

// Validate checks the length and character set of s.
//
// It returns an *Error of kind KindIncorrectLength when s does not hold
// exactly 17 characters, and of kind KindInvalidCharacters when any
// character is lowercase, is I, O or Q, or lies outside [A-Z0-9].
// Length is checked first.
func Validate(s string) error {
	if n := utf8.RuneCountInString(s); n != Length {
		return &Error{Kind: KindIncorrectLength, Length: n}
	}
	pos := 0
	for _, r := range s {
		pos++
		if !IsAllowed(r) {
			return &Error{Kind: KindInvalidCharacters, Position: pos, Char: r}
		}
	}
	return nil
}

// IsValid reports whether s passes Validate.
func IsValid(s string) bool {
	return Validate(s) == nil
}
