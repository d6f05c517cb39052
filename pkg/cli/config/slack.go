package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken      string
	signingSecret string
	tenant        string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for checking assignees)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("OUVIDORIA_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("OUVIDORIA_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-tenant",
			Usage:       "Tenant that receives cases reported through Slack",
			Category:    "Slack",
			Value:       string(types.DefaultTenantID),
			Destination: &x.tenant,
			Sources:     cli.EnvVars("OUVIDORIA_SLACK_TENANT"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("tenant", x.tenant),
	)
}

// SigningSecret returns the webhook signing secret. Empty disables the Slack
// event endpoint.
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Tenant returns the tenant Slack reports are filed under
func (x *Slack) Tenant() types.TenantID {
	if x.tenant == "" {
		return types.DefaultTenantID
	}
	return types.TenantID(x.tenant)
}

// Directory returns a Slack-backed user directory, or nil when no bot token
// is configured.
func (x *Slack) Directory() (interfaces.UserDirectory, error) {
	if x.botToken == "" {
		return nil, nil
	}
	dir, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack user directory")
	}
	return dir, nil
}
