package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"typical", "hunter2-but-longer"},
		{"unicode", "pässwörd€"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword() error: %v", err)
			}
			if !strings.HasPrefix(hash, "$2") {
				t.Fatalf("expected bcrypt hash, got %q", hash)
			}
			if err := VerifyPassword(hash, tt.password); err != nil {
				t.Errorf("VerifyPassword() rejected the original password: %v", err)
			}
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("repeat-after-me")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("repeat-after-me")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical, salt is missing")
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("the-real-one")
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyPassword(hash, "a-guess"); err == nil {
		t.Error("VerifyPassword() accepted a wrong password")
	}
	if err := VerifyPassword(hash, ""); err == nil {
		t.Error("VerifyPassword() accepted an empty password")
	}
}
