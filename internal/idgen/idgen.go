// Package idgen produces prefixed, hard-to-guess identifier strings.
//
// An identifier is a short kind prefix followed by the lowercase hex
// encoding of cryptographically random bytes, e.g. "USR3f9c0a…". There is
// no central allocator: uniqueness is statistical and follows from the
// size of the random suffix. Generate keeps no state and is safe for
// concurrent use.
package idgen

import (
	"strings"

	"github.com/dmitrijs2005/domca/internal/common"
)

// DefaultLength is the number of random bytes in a suffix (20 hex chars).
const DefaultLength = 10

// randHex is a seam for tests that need to simulate entropy failure.
var randHex = common.MakeRandHexString

// Generate returns prefix followed by 2*length random hex characters.
// A blank prefix or a non-positive length yields common.ErrInvalidArgument.
func Generate(prefix string, length int) (string, error) {
	if strings.TrimSpace(prefix) == "" {
		return "", common.NewInvalidArgumentError("prefix", "must not be null, empty, or whitespace")
	}
	if length <= 0 {
		return "", common.NewInvalidArgumentError("length", "must be greater than zero")
	}

	suffix, err := randHex(length)
	if err != nil {
		return "", err
	}
	return prefix + suffix, nil
}

// MustGenerate is Generate with DefaultLength that panics on failure. The
// only runtime failure left once the prefix is a valid constant is the
// random source itself, which is not recoverable.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix, DefaultLength)
	if err != nil {
		panic(err)
	}
	return id
}
