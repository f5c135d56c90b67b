// Package local defines the process-local cache tier: a short-lived
// accelerator in front of the distributed tier, never the authority on
// freshness.
//
// Tier implementations never fail and never block on I/O. The default is
// Bounded; adapters for BigCache and Ristretto live in subpackages.
package local

// Tier is a byte store scoped to one process. Implementations apply their
// own fixed entry lifetime regardless of the TTL callers pass to the
// orchestrator.
type Tier interface {
	// Get returns the payload for key, or ok=false if absent or expired.
	Get(key string) ([]byte, bool)

	// Set stores payload under key, evicting if at capacity.
	Set(key string, payload []byte)

	// Del removes key if present.
	Del(key string)

	// Clear empties the tier.
	Clear()

	// Close releases resources.
	Close() error
}
