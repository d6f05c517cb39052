package redis

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

const defaultKeyPrefix = "ouvidoria:seen"

// SeenStore keeps polled event ids in Redis so that restarts do not re-ingest them
type SeenStore struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

var _ interfaces.SeenStore = &SeenStore{}

type Option func(*SeenStore)

// WithKeyPrefix sets the key namespace, default "ouvidoria:seen"
func WithKeyPrefix(prefix string) Option {
	return func(s *SeenStore) {
		s.keyPrefix = prefix
	}
}

func NewSeenStore(client redis.UniversalClient, ttl time.Duration, opts ...Option) *SeenStore {
	s := &SeenStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect parses url, pings the server and returns the client
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse redis URL")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "redis ping failed", goerr.V("addr", opts.Addr))
	}
	return client, nil
}

func (s *SeenStore) key(channel types.Channel, id string) string {
	return s.keyPrefix + ":" + channel.String() + ":" + id
}

func (s *SeenStore) Add(ctx context.Context, channel types.Channel, id string) (bool, error) {
	added, err := s.client.SetNX(ctx, s.key(channel, id), 1, s.ttl).Result()
	if err != nil {
		return false, goerr.Wrap(err, "failed to mark event as seen", goerr.V(model.ChannelKey, channel), goerr.V("id", id))
	}
	return added, nil
}

func (s *SeenStore) Remove(ctx context.Context, channel types.Channel, id string) error {
	if err := s.client.Del(ctx, s.key(channel, id)).Err(); err != nil {
		return goerr.Wrap(err, "failed to forget seen event", goerr.V(model.ChannelKey, channel), goerr.V("id", id))
	}
	return nil
}
