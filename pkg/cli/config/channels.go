package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/channel"
	"github.com/urfave/cli/v3"
)

// DefaultPollInterval matches the one-minute cadence of the Graph watchers
const DefaultPollInterval = time.Minute

// Channels holds credentials of the polled social channels. A source is
// enabled only when all of its credentials are set.
type Channels struct {
	instagramBusinessID string
	instagramToken      string
	facebookToken       string
	whatsappPhoneID     string
	whatsappToken       string
	graphBaseURL        string
	interval            time.Duration
	tenant              string
}

func (x *Channels) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "instagram-business-id",
			Usage:       "Instagram business account ID to poll",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_INSTAGRAM_BUSINESS_ID"),
			Destination: &x.instagramBusinessID,
		},
		&cli.StringFlag{
			Name:        "instagram-token",
			Usage:       "Instagram Graph API access token",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_INSTAGRAM_TOKEN"),
			Destination: &x.instagramToken,
		},
		&cli.StringFlag{
			Name:        "facebook-token",
			Usage:       "Facebook page access token",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_FACEBOOK_TOKEN"),
			Destination: &x.facebookToken,
		},
		&cli.StringFlag{
			Name:        "whatsapp-phone-id",
			Usage:       "WhatsApp Business phone number ID to poll",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_WHATSAPP_PHONE_ID"),
			Destination: &x.whatsappPhoneID,
		},
		&cli.StringFlag{
			Name:        "whatsapp-token",
			Usage:       "WhatsApp Cloud API access token",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_WHATSAPP_TOKEN"),
			Destination: &x.whatsappToken,
		},
		&cli.StringFlag{
			Name:        "graph-base-url",
			Usage:       "Override of the Graph API base URL",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_GRAPH_BASE_URL"),
			Destination: &x.graphBaseURL,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval between channel polls",
			Category:    "Channels",
			Value:       DefaultPollInterval,
			Sources:     cli.EnvVars("OUVIDORIA_POLL_INTERVAL"),
			Destination: &x.interval,
		},
		&cli.StringFlag{
			Name:        "poll-tenant",
			Usage:       "Tenant that receives cases from polled channels",
			Category:    "Channels",
			Value:       string(types.DefaultTenantID),
			Sources:     cli.EnvVars("OUVIDORIA_POLL_TENANT"),
			Destination: &x.tenant,
		},
	}
}

func (x Channels) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("instagram-business-id", x.instagramBusinessID),
		slog.Int("instagram-token.len", len(x.instagramToken)),
		slog.Int("facebook-token.len", len(x.facebookToken)),
		slog.String("whatsapp-phone-id", x.whatsappPhoneID),
		slog.Int("whatsapp-token.len", len(x.whatsappToken)),
		slog.Duration("interval", x.interval),
		slog.String("tenant", x.tenant),
	)
}

// Interval returns the poll interval
func (x *Channels) Interval() (time.Duration, error) {
	if x.interval <= 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "poll-interval must be positive", goerr.V(FlagKey, "poll-interval"))
	}
	return x.interval, nil
}

// Tenant returns the tenant polled reports are filed under
func (x *Channels) Tenant() types.TenantID {
	if x.tenant == "" {
		return types.DefaultTenantID
	}
	return types.TenantID(x.tenant)
}

// Sources returns the poll sources whose credentials are configured
func (x *Channels) Sources() []interfaces.PollSource {
	var opts []channel.GraphOption
	if x.graphBaseURL != "" {
		opts = append(opts, channel.WithGraphBaseURL(x.graphBaseURL))
	}

	var sources []interfaces.PollSource
	if x.instagramBusinessID != "" && x.instagramToken != "" {
		sources = append(sources, channel.NewInstagramSource(x.instagramBusinessID, x.instagramToken, opts...))
	}
	if x.facebookToken != "" {
		sources = append(sources, channel.NewFacebookSource(x.facebookToken, opts...))
	}
	if x.whatsappPhoneID != "" && x.whatsappToken != "" {
		sources = append(sources, channel.NewWhatsAppSource(x.whatsappPhoneID, x.whatsappToken, opts...))
	}
	return sources
}
