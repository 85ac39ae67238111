package vin

// weights are the positional multipliers of the check digit algorithm.
// Position 9 holds the check digit itself and carries weight 0.
var weights = [Length]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// letterValues is the standard letter transliteration. It is not derived
// from character codes: the sequence restarts at J and at S, and P skips to 7.
var letterValues = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// transliteration holds value+1 for every allowed byte, 0 for everything else.
var transliteration = func() [256]uint8 {
	var t [256]uint8
	for c, v := range letterValues {
		t[c] = uint8(v) + 1
	}
	for c := byte('0'); c <= '9'; c++ {
		t[c] = c - '0' + 1
	}
	return t
}()

// Transliterate returns the checksum value of c.
// The second result is false for characters outside the VIN alphabet.
func Transliterate(c byte) (int, bool) {
	v := transliteration[c]
	if v == 0 {
		return 0, false
	}
	return int(v) - 1, true
}

// Weight returns the checksum weight of the zero-based position i.
func Weight(i int) int {
	if i < 0 || i >= Length {
		return 0
	}
	return weights[i]
}

// VerifyChecksum validates s and compares its check digit against the
// weighted sum of the other 16 characters.
//
// Structural failures are returned exactly as Validate reports them.
// A mismatch is returned as a *ChecksumError carrying both characters.
func VerifyChecksum(s string) error {
	if err := Validate(s); err != nil {
		return err
	}
	expected := checkDigit(s)
	if received := s[CheckDigitIndex]; received != expected {
		return &ChecksumError{Expected: expected, Received: received}
	}
	return nil
}

// CheckDigit returns the check character s should carry at position 9.
// The current content of position 9 is ignored but must still be a valid
// VIN character.
func CheckDigit(s string) (byte, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}
	return checkDigit(s), nil
}

// WithCheckDigit returns s with position 9 replaced by the computed check digit.
func WithCheckDigit(s string) (string, error) {
	d, err := CheckDigit(s)
	if err != nil {
		return "", err
	}
	b := []byte(s)
	b[CheckDigitIndex] = d
	return string(b), nil
}

// checkDigit assumes s is structurally valid.
func checkDigit(s string) byte {
	sum := 0
	for i := 0; i < Length; i++ {
		if i == CheckDigitIndex {
			continue
		}
		sum += int(transliteration[s[i]]-1) * weights[i]
	}
	r := sum % 11
	if r == 10 {
		return 'X'
	}
	return byte('0' + r)
}
