package utils

import "testing"

func TestNewIDLength(t *testing.T) {
	for _, length := range []int{4, 10, 16, 32} {
		id, err := NewID(length)
		if err != nil {
			t.Fatalf("NewID(%d) failed: %v", length, err)
		}
		if len(id) != length {
			t.Fatalf("expected ID of length %d, got %q (%d)", length, id, len(id))
		}
	}
}

func TestNewIDFallbackLength(t *testing.T) {
	for _, length := range []int{-1, 0, 3, 33, 100} {
		id, err := NewID(length)
		if err != nil {
			t.Fatalf("NewID(%d) failed: %v", length, err)
		}
		if len(id) != 10 {
			t.Fatalf("expected fallback length 10 for NewID(%d), got %d", length, len(id))
		}
	}
}

func TestNewIDProducesValidIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID(10)
		if err != nil {
			t.Fatalf("NewID failed: %v", err)
		}
		if !IsValidID(id) {
			t.Fatalf("generated ID %q failed validation", id)
		}
		if seen[id] {
			t.Fatalf("generated duplicate ID %q within 100 draws", id)
		}
		seen[id] = true
	}
}

func TestIsValidID(t *testing.T) {
	valid := []string{"abcd", "abcDEF2345", "XyZ789wqrt"}
	for _, id := range valid {
		if !IsValidID(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{
		"",
		"abc",                                 // too short
		"abcdefghijabcdefghijabcdefghijabc",   // too long
		"has space1",
		"paste:abcd", // namespace prefix must not leak into IDs
		"abcl0Ode",   // ambiguous characters excluded from charset
		"abc-def_gh", // dashes and underscores not in charset
	}
	for _, id := range invalid {
		if IsValidID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}
