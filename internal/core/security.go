// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// hashParams are the argon2id cost settings new hashes are minted with.
// Stored hashes carry their own settings, so these can be raised without
// invalidating existing credentials; VerifyPasswordWithRehash upgrades
// old hashes on the next successful login.
type hashParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentParams = hashParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

const saltLength = 16

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := currentParams
	key := argon2.IDKey(
		[]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory,
		p.time,
		p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	p, salt, want, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey(
		[]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// VerifyPasswordWithRehash reports whether the password matches and, when
// the stored hash was minted with outdated cost settings, returns a fresh
// hash for the caller to persist.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	if p, _, _, decErr := decodeHash(encodedHash); decErr != nil ||
		p != currentParams {
		newHash, hashErr := HashPassword(password)
		if hashErr != nil {
			// The password verified; losing the rehash costs nothing
			// but a retry on the next login.
			return true, "", nil
		}
		return true, newHash, nil
	}

	return true, "", nil
}

var decoyOnce sync.Once
var decoyHash string

// VerifyPasswordTimingSafe verifies against a decoy hash when no stored
// hash exists, so a login attempt against an unknown email costs the same
// as one against a real account.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	decoyOnce.Do(func() {
		h, err := HashPassword("decoy-for-constant-time-login")
		if err != nil {
			panic(fmt.Sprintf("security: decoy hash: %v", err))
		}
		decoyHash = h
	})

	target := decoyHash
	if encodedHash != nil && *encodedHash != "" {
		target = *encodedHash
	}

	valid, newHash, err := VerifyPasswordWithRehash(password, target)

	if encodedHash == nil || *encodedHash == "" {
		return false, "", nil
	}

	return valid, newHash, err
}

func decodeHash(encodedHash string) (hashParams, []byte, []byte, error) {
	var p hashParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("parse hash version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf(
			"unsupported argon2 version %d", version)
	}

	_, err := fmt.Sscanf(
		parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads)
	if err != nil {
		return p, nil, nil, fmt.Errorf("parse hash params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode key: %w", err)
	}

	//nolint:gosec // G115: derived keys are 32 bytes
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}

func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken digests a refresh token for storage; raw tokens never touch
// the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(HashToken(token)), []byte(hash)) == 1
}
