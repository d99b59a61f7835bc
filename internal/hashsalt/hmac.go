// Package hashsalt implements the optional HMAC salting step the Sharder
// applies to an id cell before it is used for shard routing, grounded on
// fbpcs's HashSlingingSalter (data_processing/hash_slinging_salter).
package hashsalt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SaltedHash returns the raw HMAC-SHA256 digest of id keyed by key.
func SaltedHash(id string, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id))
	return mac.Sum(nil)
}

// Base64SaltedHashFromBase64Key base64-decodes base64Key, computes the
// HMAC-SHA256 digest of id keyed by the decoded bytes, and returns the
// result base64-encoded, matching
// base64SaltedHashFromBase64Key(id, base64Key) in the reference
// implementation.
func Base64SaltedHashFromBase64Key(id, base64Key string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return "", fmt.Errorf("hashsalt: invalid base64 key: %w", err)
	}
	digest := SaltedHash(id, key)
	return base64.StdEncoding.EncodeToString(digest), nil
}
