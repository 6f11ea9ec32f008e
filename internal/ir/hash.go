package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSortTrace   = "algotrace/sort-trace/v" + TraceVersion
	DomainSearchTrace = "algotrace/search-trace/v" + TraceVersion
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalTrace returns the canonical JSON of a snapshot sequence followed
// by its outcome: {"outcome":...,"snapshots":[...]}.
func CanonicalTrace[S Canonical](snapshots []S, outcome Outcome) ([]byte, error) {
	list := make([]any, len(snapshots))
	for i, s := range snapshots {
		list[i] = s.CanonicalValue()
	}
	return MarshalCanonical(map[string]any{
		"outcome":   outcome.CanonicalValue(),
		"snapshots": list,
	})
}

// SortTraceHash computes the content hash of a sort trace.
// Two runs with identical input and algorithm produce identical hashes.
func SortTraceHash(snapshots []SortSnapshot, outcome Outcome) (string, error) {
	data, err := CanonicalTrace(snapshots, outcome)
	if err != nil {
		return "", fmt.Errorf("SortTraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSortTrace, data), nil
}

// SearchTraceHash computes the content hash of a search trace.
func SearchTraceHash(snapshots []SearchSnapshot, outcome Outcome) (string, error) {
	data, err := CanonicalTrace(snapshots, outcome)
	if err != nil {
		return "", fmt.Errorf("SearchTraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSearchTrace, data), nil
}
