// Package cache provides the local, always-available key→JSON store that
// keeps the learner working with no network.
//
// The cache is a single-writer resource: only the sync coordinator writes
// it. Reads and writes are synchronous; callers never wait on the network.
package cache

// Logical keys used by the sync coordinator. Each holds one JSON-serialized
// snapshot.
const (
	KeyProgress     = "progress-state"
	KeyGamification = "gamification-state"
	// KeyLearnerID persists the authenticated identity between runs so a
	// restart does not look anonymous.
	KeyLearnerID = "learner-id"
)

// Cache is a synchronous key→bytes store that survives process restarts.
//
// Get returns ok=false for an absent key; absence is not an error.
type Cache interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}
