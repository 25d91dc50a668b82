package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// IDCodec turns an aggregator account identifier into an opaque token that is
// safe to hand to the browser (shareable links), and back. Unlike Encryptor,
// encoding is deterministic: the nonce is derived from an HMAC of the
// plaintext, so the same account ID always encodes to the same token. The raw
// account ID never reaches the client.
type IDCodec struct {
	aead    cipher.AEAD
	hmacKey []byte
}

func NewIDCodec(key string) (*IDCodec, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Separate HMAC key derived from the cipher key so nonce derivation and
	// encryption never share key material directly.
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte("horizon-id-nonce"))

	return &IDCodec{aead: aead, hmacKey: mac.Sum(nil)}, nil
}

// Encode produces a deterministic, reversible, URL-safe token for id.
// Token layout is nonce || ciphertext, like Encryptor, just with the nonce
// derived instead of random.
func (c *IDCodec) Encode(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("cannot encode empty id")
	}

	nonce := c.nonceFor(id)
	sealed := c.aead.Seal(nonce, nonce, []byte(id), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode.
func (c *IDCodec) Decode(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode id: %w", err)
	}

	return string(plaintext), nil
}

func (c *IDCodec) nonceFor(id string) []byte {
	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write([]byte(id))
	return mac.Sum(nil)[:c.aead.NonceSize()]
}
