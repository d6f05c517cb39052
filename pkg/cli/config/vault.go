package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
	"github.com/urfave/cli/v3"
)

// Vault holds the master key of the identity and message vaults
type Vault struct {
	key string
}

func (x *Vault) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vault-key",
			Usage:       "32-byte vault master key, hex or base64 encoded",
			Category:    "Vault",
			Sources:     cli.EnvVars("OUVIDORIA_VAULT_KEY"),
			Destination: &x.key,
		},
	}
}

func (x Vault) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("key.len", len(x.key)),
	)
}

// Key parses the master key. There is no default; a missing key is an error.
func (x *Vault) Key() ([]byte, error) {
	if x.key == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "vault-key is required", goerr.V(FlagKey, "vault-key"))
	}
	key, err := vault.ParseKey(x.key)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid vault key", goerr.V(FlagKey, "vault-key"))
	}
	return key, nil
}

// Configure builds the vaults on top of the identity repository
func (x *Vault) Configure(repo interfaces.IdentityRepository) (*vault.Vaults, error) {
	key, err := x.Key()
	if err != nil {
		return nil, err
	}
	vaults, err := vault.New(key, repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build vaults")
	}
	return vaults, nil
}
