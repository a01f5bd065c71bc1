// Package rowversion converts optimistic concurrency tokens between their
// stored byte form and the base64 text handed to clients.
package rowversion

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalid is returned when a client supplied token cannot be decoded
var ErrInvalid = errors.New("invalid row version format")

// New returns a fresh random token. Every write stores a new one.
func New() []byte {
	id := uuid.New()
	return id[:]
}

// Encode renders a stored token for clients. A nil token encodes to "".
func Encode(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(v)
}

// Decode parses a token previously produced by Encode
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalid
	}
	v, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(v) == 0 {
		return nil, ErrInvalid
	}
	return v, nil
}
