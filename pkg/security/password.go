package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/doctorpiscinas/storefront-backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// Hash is a decoded PHC-style argon2id string:
// $argon2id$v=19$m=<kb>,t=<iterations>,p=<threads>$<salt>$<key>
type Hash struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	Salt        []byte
	Key         []byte
}

func (h Hash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Parallelism,
		b64.EncodeToString(h.Salt), b64.EncodeToString(h.Key))
}

var b64 = base64.RawStdEncoding

// HashPassword derives an argon2id hash for the back-office password using the
// configured cost, clamped to sane bounds.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	h := Hash{
		Memory:      bounded(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        bounded(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(bounded(cfg.ArgonParallelism, 1, 255)),
		Salt:        make([]byte, bounded(cfg.ArgonSaltLen, 8, 64)),
	}
	if _, err := rand.Read(h.Salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	h.Key = argon2.IDKey([]byte(password), h.Salt, h.Time, h.Memory, h.Parallelism, bounded(cfg.ArgonKeyLen, 16, 64))
	return h.String(), nil
}

// VerifyPassword reports whether password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := ParseHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), h.Salt, h.Time, h.Memory, h.Parallelism, uint32(len(h.Key)))
	return subtle.ConstantTimeCompare(h.Key, computed) == 1, nil
}

// ParseHash decodes an argon2id string. Only the current argon2 version is accepted.
func ParseHash(encoded string) (Hash, error) {
	parts := strings.Split(strings.TrimSpace(encoded), "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Hash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Hash{}, ErrInvalidHash
	}

	var h Hash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.Memory, &h.Time, &h.Parallelism); err != nil {
		return Hash{}, ErrInvalidHash
	}
	if h.Memory == 0 || h.Time == 0 || h.Parallelism == 0 {
		return Hash{}, ErrInvalidHash
	}

	var err error
	if h.Salt, err = b64.DecodeString(parts[4]); err != nil || len(h.Salt) == 0 {
		return Hash{}, ErrInvalidHash
	}
	if h.Key, err = b64.DecodeString(parts[5]); err != nil || len(h.Key) == 0 {
		return Hash{}, ErrInvalidHash
	}
	return h, nil
}

// NeedsRehash reports whether encoded was produced with a weaker cost than cfg asks for.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	h, err := ParseHash(encoded)
	if err != nil {
		return true
	}
	return h.Memory < bounded(cfg.ArgonMemoryKB, 8, 512*1024) ||
		h.Time < bounded(cfg.ArgonTime, 1, 10) ||
		len(h.Key) < int(bounded(cfg.ArgonKeyLen, 16, 64))
}

func bounded(value, lo, hi int) uint32 {
	switch {
	case value < lo:
		return uint32(lo)
	case value > hi:
		return uint32(hi)
	default:
		return uint32(value)
	}
}
