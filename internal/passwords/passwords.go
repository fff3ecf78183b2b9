// Package passwords derives and verifies argon2id password hashes.
package passwords

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32
)

// randomSalt is a seam for tests.
var randomSalt = func() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Derive runs argon2id over password and salt.
func Derive(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// Hash derives a hash for password with a fresh random salt. Both are
// returned base64 encoded, ready for storage.
func Hash(password string) (hash, salt string, err error) {
	if password == "" {
		return "", "", common.NewInvalidArgumentError("password", "must not be empty")
	}

	s := randomSalt()
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := Derive(pw, s)
	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(s), nil
}

// Verify reports whether password matches the stored hash and salt. The
// comparison runs in constant time.
func Verify(password, hash, salt string) (bool, error) {
	want, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	s, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	got := Derive(pw, s)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
