package vault

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
)

// MessageVault encrypts case message bodies
type MessageVault struct {
	crypto *Crypto
}

func NewMessageVault(crypto *Crypto) *MessageVault {
	return &MessageVault{crypto: crypto}
}

func (v *MessageVault) Encrypt(text string) (*model.CipherEnvelope, error) {
	env, err := v.crypto.SealBytes([]byte(text))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encrypt message")
	}
	return env, nil
}

func (v *MessageVault) Decrypt(env *model.CipherEnvelope) (string, error) {
	plaintext, err := v.crypto.OpenBytes(env)
	if err != nil {
		return "", goerr.Wrap(err, "failed to decrypt message")
	}
	return string(plaintext), nil
}
