package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// SearchKey is the cache key of a registry search for name.
func SearchKey(name string) string {
	return "search:" + name
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
