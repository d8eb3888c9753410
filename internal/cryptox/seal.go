package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// sealPrefix marks content sealed by Seal.
const sealPrefix = "004:"

var ErrMalformedContent = errors.New("malformed sealed content")

// Seal encrypts plaintext with AES-GCM under key and returns
// "004:" + base64(nonce || ciphertext), ready to be stored as item content.
// The key must be 16, 24 or 32 bytes.
func Seal(plaintext, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	out := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return sealPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func Open(content string, key []byte) ([]byte, error) {
	encoded, ok := strings.CutPrefix(content, sealPrefix)
	if !ok {
		return nil, ErrMalformedContent
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedContent
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(raw) < aesgcm.NonceSize() {
		return nil, ErrMalformedContent
	}

	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
