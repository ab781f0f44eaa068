package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is bumped whenever the frame layout or the synthesis
// algorithm changes, invalidating earlier entries.
const keyVersion = 2

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(version, parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(append([]any{keyVersion}, parts...))
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
