package services

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHashField_Deterministic(t *testing.T) {
	a := HashField("user@example.com")
	b := HashField("user@example.com")
	if a != b {
		t.Fatalf("same input produced different digests: %q vs %q", a, b)
	}
}

func TestHashField_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case folded", "A@B.com", "a@b.com"},
		{"leading whitespace", "  a@b.com", "a@b.com"},
		{"trailing whitespace", "a@b.com\t", "a@b.com"},
		{"mixed", "  A@B.COM ", "a@b.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if HashField(tt.a) != HashField(tt.b) {
				t.Errorf("HashField(%q) != HashField(%q)", tt.a, tt.b)
			}
		})
	}
}

func TestHashField_MatchesSHA256Hex(t *testing.T) {
	sum := sha256.Sum256([]byte("a@b.com"))
	want := hex.EncodeToString(sum[:])
	if got := HashField("A@B.com"); got != want {
		t.Fatalf("HashField = %q, want %q", got, want)
	}
	if len(want) != 64 {
		t.Fatalf("digest length = %d, want 64", len(want))
	}
}

func TestHashField_DistinctInputsDiffer(t *testing.T) {
	if HashField("a@b.com") == HashField("b@a.com") {
		t.Fatal("distinct inputs produced the same digest")
	}
}

func TestHashIfPresent_AbsentValueNeverHashed(t *testing.T) {
	for _, s := range []string{"", "   ", "\t\n"} {
		if got := hashIfPresent(s); got != "" {
			t.Errorf("hashIfPresent(%q) = %q, want empty", s, got)
		}
	}
	if hashIfPresent("jane") == "" {
		t.Error("hashIfPresent dropped a present value")
	}
}
