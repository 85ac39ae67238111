package vin

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestTransliterate(t *testing.T) {
	want := map[byte]int{
		'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
		'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
		'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
		'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	}
	for c := 0; c < 256; c++ {
		got, ok := Transliterate(byte(c))
		w, allowed := want[byte(c)]
		if ok != allowed {
			t.Errorf("Transliterate(%q) ok = %v; want %v", c, ok, allowed)
			continue
		}
		if ok && got != w {
			t.Errorf("Transliterate(%q) = %d; want %d", c, got, w)
		}
	}
}

func TestWeight(t *testing.T) {
	want := []int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}
	for i, w := range want {
		if got := Weight(i); got != w {
			t.Errorf("Weight(%d) = %d; want %d", i, got, w)
		}
	}
	if Weight(-1) != 0 || Weight(Length) != 0 {
		t.Error("out of range weights should be 0")
	}
}

func TestVerifyChecksum_Valid(t *testing.T) {
	valid := []string{
		"1HGCM82633A004352",
		"11111111111111111",
		"1M8GDM9AXKP042788", // check digit X
		"JHMCM56557C404453",
		"5YJ3E1EA2KF317000",
		"WBA3A5C57CF256651",
	}
	for _, v := range valid {
		if err := VerifyChecksum(v); err != nil {
			t.Errorf("VerifyChecksum(%q) = %v; want nil", v, err)
		}
	}
}

func TestVerifyChecksum_Mismatch(t *testing.T) {
	tests := []struct {
		vin      string
		expected byte
		received byte
	}{
		{"1HGCM82673A004352", '3', '7'},
		{"1HGCM82633A123456", '7', '3'},
		{"1M8GDM9A0KP042788", 'X', '0'},
		{"11111111X11111111", '1', 'X'},
	}

	for _, tt := range tests {
		t.Run(tt.vin, func(t *testing.T) {
			err := VerifyChecksum(tt.vin)
			if !errors.Is(err, ErrChecksum) {
				t.Fatalf("VerifyChecksum(%q) = %v; want ErrChecksum", tt.vin, err)
			}
			var ce *ChecksumError
			if !errors.As(err, &ce) {
				t.Fatalf("error is %T; want *ChecksumError", err)
			}
			if ce.Expected != tt.expected || ce.Received != tt.received {
				t.Errorf("expected, received = %q, %q; want %q, %q", ce.Expected, ce.Received, tt.expected, tt.received)
			}
			if kind, _ := KindOf(err); kind != KindChecksumError {
				t.Errorf("KindOf = %v; want ChecksumError", kind)
			}
		})
	}
}

func TestVerifyChecksum_Revalidates(t *testing.T) {
	if err := VerifyChecksum("SHORT"); !errors.Is(err, ErrIncorrectLength) {
		t.Errorf("VerifyChecksum(SHORT) = %v; want ErrIncorrectLength", err)
	}
	if err := VerifyChecksum("1HGCM82633A00435q"); !errors.Is(err, ErrInvalidCharacters) {
		t.Errorf("VerifyChecksum(lowercase) = %v; want ErrInvalidCharacters", err)
	}
	// An I is rejected, never transliterated as zero.
	if err := VerifyChecksum("1HGCM82633AI04352"); !errors.Is(err, ErrInvalidCharacters) {
		t.Errorf("VerifyChecksum(I) = %v; want ErrInvalidCharacters", err)
	}
}

func TestVerifyChecksum_Deterministic(t *testing.T) {
	inputs := []string{"1HGCM82633A004352", "1HGCM82673A004352", "SHORT", "1hgcm82633a004352"}
	for _, in := range inputs {
		first := VerifyChecksum(in)
		for i := 0; i < 10; i++ {
			again := VerifyChecksum(in)
			if (first == nil) != (again == nil) || (first != nil && first.Error() != again.Error()) {
				t.Fatalf("VerifyChecksum(%q) changed between calls: %v vs %v", in, first, again)
			}
		}
	}
}

func TestCheckDigit_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n < 1000; n++ {
		b := make([]byte, Length)
		for i := range b {
			b[i] = Alphabet[rng.IntN(len(Alphabet))]
		}
		withDigit, err := WithCheckDigit(string(b))
		if err != nil {
			t.Fatalf("WithCheckDigit(%q) = %v", b, err)
		}
		if err := VerifyChecksum(withDigit); err != nil {
			t.Fatalf("VerifyChecksum(%q) = %v; want nil", withDigit, err)
		}
	}
}

func TestCheckDigit(t *testing.T) {
	d, err := CheckDigit("1HGCM82603A004352")
	if err != nil {
		t.Fatalf("CheckDigit failed: %v", err)
	}
	if d != '3' {
		t.Errorf("CheckDigit = %q; want '3'", d)
	}

	if _, err := CheckDigit("1HGCM826"); !errors.Is(err, ErrIncorrectLength) {
		t.Errorf("CheckDigit(short) = %v; want ErrIncorrectLength", err)
	}
	if _, err := WithCheckDigit("1HGCM826O3A004352"); !errors.Is(err, ErrInvalidCharacters) {
		t.Errorf("WithCheckDigit(O) = %v; want ErrInvalidCharacters", err)
	}
}

func BenchmarkVerifyChecksum(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = VerifyChecksum("1HGCM82633A004352")
	}
}
