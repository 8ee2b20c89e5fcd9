package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Stored credential format: pbkdf2_sha256$<iterations>$<salt b64>$<hash b64>.
const (
	hashAlgorithm     = "pbkdf2_sha256"
	saltLength        = 16
	keyLength         = 32
	DefaultIterations = 29000
)

var ErrMalformedHash = errors.New("malformed password hash")

func HashPassword(password string, iterations int) (string, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		hashAlgorithm,
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != hashAlgorithm {
		return ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return ErrMalformedHash
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return ErrMalformedHash
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(key, expected) != 1 {
		return errors.New("password mismatch")
	}
	return nil
}
