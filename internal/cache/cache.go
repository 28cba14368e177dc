// Package cache is the host-side record cache: it short-circuits repeat
// documents in batch and server mode. The extraction core never reads or
// writes it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized records keyed by document hash.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a document. Identical text maps to the
// same record, so the content hash is the key.
func Key(documentText string) string {
	hash := sha256.Sum256([]byte(documentText))
	return "reviewminer:v1:" + hex.EncodeToString(hash[:])
}
