package crypto

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.Contains(encoded, "$") {
		t.Fatalf("expected salt$hash encoding, got %q", encoded)
	}
	if strings.Contains(encoded, "admin123") {
		t.Error("encoded hash leaks the plaintext")
	}

	if !VerifyPassword("admin123", encoded) {
		t.Error("correct password failed to verify")
	}
	if VerifyPassword("admin124", encoded) {
		t.Error("wrong password verified")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, _ := HashPassword("same-password")
	second, _ := HashPassword("same-password")
	if first == second {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "nodollar", "xx$yy", "zz$"} {
		if VerifyPassword("anything", encoded) {
			t.Errorf("malformed hash %q verified", encoded)
		}
	}
}
