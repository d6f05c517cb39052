package vault

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
)

// Vaults bundles both vaults keyed from one master key
type Vaults struct {
	Identity *IdentityVault
	Message  *MessageVault
}

// New derives the subkeys from master and builds both vaults
func New(master []byte, repo interfaces.IdentityRepository) (*Vaults, error) {
	identityKey, messageKey, err := DeriveKeys(master)
	if err != nil {
		return nil, err
	}

	identityCrypto, err := NewCrypto(identityKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build identity crypto")
	}
	messageCrypto, err := NewCrypto(messageKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build message crypto")
	}

	return &Vaults{
		Identity: NewIdentityVault(identityCrypto, repo),
		Message:  NewMessageVault(messageCrypto),
	}, nil
}
