package sessioncache

import (
	"crypto/sha1"
	"encoding/hex"
)

// KeyLength is the number of hex characters of the digest used as a key.
//
// 28 bits is enough to tell apart the handful of roles one user assumes, but
// two roles may collide; a collision makes them share (and evict) each
// other's entries. Changing this orphans every existing cache entry.
const KeyLength = 7

// DeriveKey returns the cache key for roleID: the first KeyLength hex
// characters of sha1(roleID)
func DeriveKey(roleID string) string {
	sum := sha1.Sum([]byte(roleID))
	return hex.EncodeToString(sum[:])[:KeyLength]
}

// RoleKey keys entries by the ARN of the assumed role only; the MFA device,
// session name and duration used to get the credentials do not matter.
type RoleKey struct {
	RoleARN string
}

func (k RoleKey) Key() string {
	return DeriveKey(k.RoleARN)
}

func (k RoleKey) String() string {
	return k.RoleARN + " (" + k.Key() + ")"
}
