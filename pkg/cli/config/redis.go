package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
	"github.com/secmon-lab/ouvidoria/pkg/repository/redis"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// DefaultSeenTTL bounds how long processed message ids are remembered
const DefaultSeenTTL = 30 * 24 * time.Hour

// SeenStore holds CLI flags for the processed-message store of the pollers
type SeenStore struct {
	redisURL string
	prefix   string
	ttl      time.Duration
}

func (x *SeenStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL for processed message ids (in-memory when empty)",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_REDIS_URL"),
			Destination: &x.redisURL,
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Usage:       "Key prefix for processed message ids in Redis",
			Category:    "Channels",
			Sources:     cli.EnvVars("OUVIDORIA_REDIS_KEY_PREFIX"),
			Destination: &x.prefix,
		},
		&cli.DurationFlag{
			Name:        "seen-ttl",
			Usage:       "How long processed message ids are remembered",
			Category:    "Channels",
			Value:       DefaultSeenTTL,
			Sources:     cli.EnvVars("OUVIDORIA_SEEN_TTL"),
			Destination: &x.ttl,
		},
	}
}

func (x SeenStore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("redis", x.redisURL != ""),
		slog.String("prefix", x.prefix),
		slog.Duration("ttl", x.ttl),
	)
}

// Configure returns the seen store and a function releasing its connection
func (x *SeenStore) Configure(ctx context.Context) (interfaces.SeenStore, func(), error) {
	if x.ttl <= 0 {
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "seen-ttl must be positive", goerr.V(FlagKey, "seen-ttl"))
	}

	if x.redisURL == "" {
		return memory.NewSeenStore(memory.WithSeenTTL(x.ttl)), func() {}, nil
	}

	client, err := redis.Connect(ctx, x.redisURL)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to connect to redis")
	}

	var opts []redis.Option
	if x.prefix != "" {
		opts = append(opts, redis.WithKeyPrefix(x.prefix))
	}

	closer := func() {
		if err := client.Close(); err != nil {
			logging.From(ctx).Warn("failed to close redis client", "error", err)
		}
	}
	logging.From(ctx).Info("Using Redis seen store")
	return redis.NewSeenStore(client, x.ttl, opts...), closer, nil
}
