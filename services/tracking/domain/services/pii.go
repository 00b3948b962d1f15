// Package services contains stateless domain services for the tracking
// bounded context: PII normalization, dedup key derivation, and the
// conversion event builder. They operate purely on domain types and have
// zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashField canonicalizes a PII field and returns its one-way digest:
// lower-cased, whitespace-trimmed, SHA-256, hex-encoded. Deterministic for
// the same input. Raw PII must never leave the system boundary unhashed.
func HashField(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}

// hashIfPresent hashes s only when it is non-empty after trimming.
// An absent value yields "", never the digest of the empty string —
// hashing "" would submit a misleading false-identity signal.
func hashIfPresent(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return HashField(s)
}
