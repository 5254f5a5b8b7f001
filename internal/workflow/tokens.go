package workflow

import "github.com/google/uuid"

// TokenSource yields unique opaque strings for gate-pass QR codes.
type TokenSource func() string

// UUIDTokens returns the default token source.
func UUIDTokens() TokenSource {
	return func() string {
		return "QR-" + uuid.NewString()
	}
}
