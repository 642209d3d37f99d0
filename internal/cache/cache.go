package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the minimal interface shared by the memory, disk and layered
// implementations. Values are opaque bytes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Clear() error
}

// Key builds a stable, filesystem-safe cache key from arbitrary parts
// (URLs, prompts, model identifiers).
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "proklep:v1:" + hex.EncodeToString(sum[:])
}
