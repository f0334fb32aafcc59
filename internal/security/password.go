package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters; keyLen matches the length of the stored digests.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives a salted scrypt digest in the form hex(key).hex(salt).
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltLen)

	_, err := rand.Read(salt)

	if err != nil {
		return "", err
	}

	saltHex := hex.EncodeToString(salt)

	key, err := scrypt.Key([]byte(plain), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(key) + "." + saltHex, nil
}

// VerifyPassword re-derives the key from the stored salt and compares in
// constant time. A malformed digest verifies as false, it never errors.
func VerifyPassword(plain, digest string) bool {
	keyHex, saltHex, ok := strings.Cut(digest, ".")

	if !ok || keyHex == "" || saltHex == "" {
		return false
	}

	stored, err := hex.DecodeString(keyHex)

	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(plain), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)

	if err != nil {
		return false
	}

	if len(stored) != len(derived) {
		return false
	}

	return subtle.ConstantTimeCompare(stored, derived) == 1
}
