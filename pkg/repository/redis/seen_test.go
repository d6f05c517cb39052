package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/redis"
)

func TestSeenStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, url)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewSeenStore(client, time.Minute, redis.WithKeyPrefix("test:"+uuid.NewString()))

	t.Run("first add wins", func(t *testing.T) {
		added, err := store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.NoError(t, err).Required()
		gt.B(t, added).True()

		added, err = store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.NoError(t, err).Required()
		gt.B(t, added).False()
	})

	t.Run("channels are separate", func(t *testing.T) {
		added, err := store.Add(ctx, types.ChannelFacebook, "mid.1")
		gt.NoError(t, err).Required()
		gt.B(t, added).True()
	})

	t.Run("remove allows re-add", func(t *testing.T) {
		_, err := store.Add(ctx, types.ChannelWhatsApp, "wamid.1")
		gt.NoError(t, err).Required()
		gt.NoError(t, store.Remove(ctx, types.ChannelWhatsApp, "wamid.1")).Required()

		added, err := store.Add(ctx, types.ChannelWhatsApp, "wamid.1")
		gt.NoError(t, err).Required()
		gt.B(t, added).True()
	})
}
