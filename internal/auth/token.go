package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionIDBytes is the entropy of a session token. 32 bytes (256 bits) makes
// collisions cryptographically negligible, so no uniqueness check against the
// store is performed.
const sessionIDBytes = 32

// NewSessionID returns a fresh session token: 64 lowercase hex characters,
// safe as a cookie value and as a primary key.
func NewSessionID() string {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; treat anything
		// else as unrecoverable rather than degrade token quality.
		panic(fmt.Sprintf("auth: read random: %v", err))
	}
	return hex.EncodeToString(buf)
}
