// Package cryptox derives the password-based keys of every credential scheme
// version and seals item content with the resulting master key.
package cryptox

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2id settings of scheme 004.
const (
	argonIterations  = 5
	argonMemoryKiB   = 64 * 1024
	argonParallelism = 1
	argonKeyLength   = 64
	argonSaltLength  = 16
)

// Key sizes in bytes for the PBKDF2 schemes.
const (
	legacyKeyLength = 96
	v001DefaultBits = 512
)

var (
	errLowCost    = errors.New("pw_cost must be positive")
	errBadKeySize = errors.New("pw_key_size must be a multiple of 8 and at least 16 bits")
)

// Keys holds the parts of a derived key. AuthKey is only produced by 002
// and 003.
type Keys struct {
	ServerPassword []byte
	MasterKey      []byte
	AuthKey        []byte
}

// ServerPasswordHex is the value a client sends instead of the password.
func (k *Keys) ServerPasswordHex() string {
	return hex.EncodeToString(k.ServerPassword)
}

// Wipe zeroes every key part.
func (k *Keys) Wipe() {
	common.WipeByteArray(k.ServerPassword)
	common.WipeByteArray(k.MasterKey)
	common.WipeByteArray(k.AuthKey)
}

// DeriveKey derives the keys for p's scheme version from password.
func DeriveKey(p Params, password []byte) (*Keys, error) {
	switch p.Version {
	case "004":
		return derive004(p, password)
	case "003":
		return derive003(p, password)
	case "002":
		return derive002(p, password)
	case "001":
		return derive001(p, password)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedSchemeVersion, p.Version)
	}
}

func derive004(p Params, password []byte) (*Keys, error) {
	sum := sha256.Sum256([]byte(p.Identifier + ":" + p.Nonce))
	salt := sum[:argonSaltLength]

	key := argon2.IDKey(password, salt, argonIterations, argonMemoryKiB, argonParallelism, argonKeyLength)
	half := len(key) / 2

	return &Keys{MasterKey: key[:half], ServerPassword: key[half:]}, nil
}

func derive003(p Params, password []byte) (*Keys, error) {
	if p.Cost <= 0 {
		return nil, errLowCost
	}
	input := strings.Join([]string{p.Identifier, "SF", "003", strconv.Itoa(p.Cost), p.Nonce}, ":")
	sum := sha256.Sum256([]byte(input))
	salt := hex.EncodeToString(sum[:])

	return splitThirds(pbkdf2.Key(password, []byte(salt), p.Cost, legacyKeyLength, sha512.New)), nil
}

func derive002(p Params, password []byte) (*Keys, error) {
	if p.Cost <= 0 {
		return nil, errLowCost
	}
	return splitThirds(pbkdf2.Key(password, []byte(p.Salt), p.Cost, legacyKeyLength, sha512.New)), nil
}

func derive001(p Params, password []byte) (*Keys, error) {
	if p.Cost <= 0 {
		return nil, errLowCost
	}

	h, err := hashFor(p.Alg)
	if err != nil {
		return nil, err
	}

	bits := p.KeySize
	if bits == 0 {
		bits = v001DefaultBits
	}
	if bits < 16 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: %d", errBadKeySize, bits)
	}
	key := pbkdf2.Key(password, []byte(p.Salt), p.Cost, bits/8, h)
	half := len(key) / 2

	return &Keys{ServerPassword: key[:half], MasterKey: key[half:]}, nil
}

func splitThirds(key []byte) *Keys {
	n := len(key) / 3
	return &Keys{
		ServerPassword: key[:n],
		MasterKey:      key[n : 2*n],
		AuthKey:        key[2*n:],
	}
}

func hashFor(alg string) (func() hash.Hash, error) {
	switch strings.ToLower(alg) {
	case "", "sha512":
		return sha512.New, nil
	case "sha1":
		return sha1.New, nil
	default:
		return nil, fmt.Errorf("unsupported pw_alg %q", alg)
	}
}
