package common

import (
	"crypto/rand"
	"encoding/hex"
)

// AuthorizationHeaderName and BearerScheme describe how access tokens travel
// on HTTP requests.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
)

// MakeRandHexString generates size random bytes and returns them hex-encoded,
// so the resulting string is twice as long as size. It is used for request
// identifiers.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Used for plaintext passwords read
// from the terminal. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
