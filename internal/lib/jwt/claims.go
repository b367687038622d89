// Package jwt issues and parses the bearer tokens carried by every
// authenticated portal request.
//
// Claims carry the user's email and role; Maker is the interface the auth
// service and middleware depend on, MakerImpl the HS256 implementation.
package jwt

import (
	"time"
)

// Maker creates and verifies bearer tokens.
type Maker interface {
	// GenerateToken signs a token for the given user email and role.
	GenerateToken(email, role string) (string, error)
	// ParseToken verifies the signature and returns the embedded claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with a shared secret and a fixed token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker builds a MakerImpl from the signing secret and token lifetime.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
