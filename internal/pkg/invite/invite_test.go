package invite

import (
	"strings"
	"testing"
)

func TestNewCode_Length(t *testing.T) {
	code, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode() error = %v", err)
	}
	if len(code) != CodeLength {
		t.Errorf("len(code) = %d, want %d", len(code), CodeLength)
	}
}

func TestNewCode_Alphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode() error = %v", err)
		}
		for _, r := range code {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		// Ambiguous glyphs must never appear
		if strings.ContainsAny(code, "0O1IL") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

func TestNewCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode() error = %v", err)
		}
		seen[code] = true
	}
	// With a 31^8 space, 50 draws colliding would indicate a broken generator
	if len(seen) < 50 {
		t.Errorf("got %d distinct codes out of 50 draws", len(seen))
	}
}

func TestRejectionThreshold(t *testing.T) {
	// Rejection sampling only removes modulo bias when the threshold is an
	// exact multiple of the alphabet size.
	if maxByte%len(alphabet) != 0 {
		t.Errorf("maxByte = %d is not a multiple of the alphabet size %d", maxByte, len(alphabet))
	}
	if maxByte <= 0 || maxByte > 256 {
		t.Errorf("maxByte = %d outside (0, 256]", maxByte)
	}
}
