package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/cli/config"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const vaultProbe = "ouvidoria vault probe"

func cmdValidate() *cli.Command {
	var vaultCfg config.Vault
	var classifierCfg config.Classifier

	var flags []cli.Flag
	flags = append(flags, vaultCfg.Flags()...)
	flags = append(flags, classifierCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the vault key and the classifier configuration",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: vault key parses and round-trips a message
			vaults, err := vaultCfg.Configure(memory.New().Identity())
			if err != nil {
				return goerr.Wrap(err, "vault validation failed")
			}
			env, err := vaults.Message.Encrypt(vaultProbe)
			if err != nil {
				return goerr.Wrap(err, "vault validation failed")
			}
			plain, err := vaults.Message.Decrypt(env)
			if err != nil {
				return goerr.Wrap(err, "vault validation failed")
			}
			if plain != vaultProbe {
				return goerr.New("vault round-trip mismatch")
			}
			logger.Info("Vault key validated")

			// Step 2: classifier keyword file
			cfg, err := classifierCfg.LoadConfig()
			if err != nil {
				return goerr.Wrap(err, "classifier validation failed")
			}
			logger.Info("Classifier configuration validated",
				"categories", cfg.CategoryNames(),
				"high_terms", len(cfg.Priority.High),
				"medium_terms", len(cfg.Priority.Medium),
			)
			return nil
		},
	}
}
