// Package worktodo parses and consumes entries from a PrimeNet-style
// worktodo queue file: lines requesting a probable-prime test (PRP), a
// Lucas-Lehmer test, or a P-1 factoring run against a candidate k*b^n + c.
//
// The package tolerates four overlapping, variable-arity line grammars. Each
// line is tokenized with quote awareness, classified by its key, decoded by a
// grammar-specific field sequence, and cross-validated (Mersenne/Wagstaff
// form restriction, supported PRP base set, known-factor divisibility via an
// injected Validator). Every skip and warning decision is surfaced as a
// structured Diagnostic so callers can test and report without scraping
// output.
//
// Parsing is a read-only forward scan returning the first valid entry.
// RemoveFirstProcessed is the single mutator: it archives the first
// non-empty line and atomically rewrites the queue file, giving at-least-once
// delivery across crashes. Concurrent access is not coordinated here; the
// CLI serializes with a file lock.
package worktodo
