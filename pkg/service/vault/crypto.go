package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length in bytes
	KeySize   = 32
	nonceSize = 12
	tagSize   = 16

	identityKeyInfo = "ouvidoria/identity-vault/v1"
	messageKeyInfo  = "ouvidoria/message-vault/v1"
)

// ErrInvalidKey is returned when key material has the wrong length or encoding
var ErrInvalidKey = goerr.New("invalid vault key")

// Crypto seals values into authenticated envelopes with AES-256-GCM
type Crypto struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewCrypto builds a Crypto from a raw 32-byte key
func NewCrypto(key []byte) (*Crypto, error) {
	if len(key) != KeySize {
		return nil, goerr.Wrap(ErrInvalidKey, "key must be 32 bytes", goerr.V("length", len(key)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create AES cipher")
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCM")
	}

	return &Crypto{aead: aead, rand: rand.Reader}, nil
}

// ParseKey decodes a master key given as hex or standard base64
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, goerr.Wrap(ErrInvalidKey, "key is empty")
	}

	if key, err := hex.DecodeString(s); err == nil && len(key) == KeySize {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(s); err == nil && len(key) == KeySize {
		return key, nil
	}
	return nil, goerr.Wrap(ErrInvalidKey, "key must be 32 bytes encoded as hex or base64")
}

// DeriveKeys expands the master key into independent identity and message subkeys
func DeriveKeys(master []byte) (identityKey, messageKey []byte, err error) {
	if len(master) != KeySize {
		return nil, nil, goerr.Wrap(ErrInvalidKey, "master key must be 32 bytes", goerr.V("length", len(master)))
	}

	derive := func(info string) ([]byte, error) {
		key := make([]byte, KeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
			return nil, goerr.Wrap(err, "failed to derive key", goerr.V("info", info))
		}
		return key, nil
	}

	if identityKey, err = derive(identityKeyInfo); err != nil {
		return nil, nil, err
	}
	if messageKey, err = derive(messageKeyInfo); err != nil {
		return nil, nil, err
	}
	return identityKey, messageKey, nil
}

// SealBytes encrypts plaintext under a fresh random nonce
func (c *Crypto) SealBytes(plaintext []byte) (*model.CipherEnvelope, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, goerr.Wrap(err, "failed to generate nonce")
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	body, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return &model.CipherEnvelope{
		IV:         hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(body),
		AuthTag:    hex.EncodeToString(tag),
	}, nil
}

// OpenBytes authenticates and decrypts env. Any failure wraps model.ErrIntegrity.
func (c *Crypto) OpenBytes(env *model.CipherEnvelope) ([]byte, error) {
	if env == nil {
		return nil, goerr.Wrap(model.ErrIntegrity, "envelope is nil")
	}

	nonce, err := hex.DecodeString(env.IV)
	if err != nil || len(nonce) != nonceSize {
		return nil, goerr.Wrap(model.ErrIntegrity, "malformed iv")
	}
	body, err := hex.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, goerr.Wrap(model.ErrIntegrity, "malformed ciphertext")
	}
	tag, err := hex.DecodeString(env.AuthTag)
	if err != nil || len(tag) != tagSize {
		return nil, goerr.Wrap(model.ErrIntegrity, "malformed auth tag")
	}

	plaintext, err := c.aead.Open(nil, nonce, append(body, tag...), nil)
	if err != nil {
		return nil, goerr.Wrap(model.ErrIntegrity, "authentication failed")
	}
	return plaintext, nil
}

// Seal serializes v as JSON and encrypts it
func (c *Crypto) Seal(v any) (*model.CipherEnvelope, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal value")
	}
	return c.SealBytes(raw)
}

// Open decrypts env and decodes the JSON payload into out
func (c *Crypto) Open(env *model.CipherEnvelope, out any) error {
	raw, err := c.OpenBytes(env)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(model.ErrIntegrity, "decrypted payload is not valid JSON")
	}
	return nil
}
