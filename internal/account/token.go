package account

import "github.com/google/uuid"

// TokenGenerator produces email-verification tokens. Collisions across the
// account population are assumed statistically impossible and are not
// checked against the store.
type TokenGenerator interface {
	Generate() string
}

// UUIDTokenGenerator issues random version-4 UUIDs.
type UUIDTokenGenerator struct{}

func (UUIDTokenGenerator) Generate() string {
	return uuid.NewString()
}
