package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
)

func TestSeenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first add wins", func(t *testing.T) {
		store := memory.NewSeenStore()
		added, err := store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.NoError(t, err)
		gt.B(t, added).True()

		added, err = store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.NoError(t, err)
		gt.B(t, added).False()

		added, err = store.Add(ctx, types.ChannelFacebook, "mid.1")
		gt.NoError(t, err)
		gt.B(t, added).True()
	})

	t.Run("remove allows re-add", func(t *testing.T) {
		store := memory.NewSeenStore()
		_, _ = store.Add(ctx, types.ChannelWhatsApp, "wamid.1")
		gt.NoError(t, store.Remove(ctx, types.ChannelWhatsApp, "wamid.1"))

		added, err := store.Add(ctx, types.ChannelWhatsApp, "wamid.1")
		gt.NoError(t, err)
		gt.B(t, added).True()
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		store := memory.NewSeenStore(
			memory.WithSeenTTL(time.Hour),
			memory.WithSeenClock(func() time.Time { return now }),
		)

		_, _ = store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.Number(t, store.Len()).Equal(1)

		now = now.Add(2 * time.Hour)
		gt.Number(t, store.Len()).Equal(0)

		added, err := store.Add(ctx, types.ChannelInstagram, "mid.1")
		gt.NoError(t, err)
		gt.B(t, added).True()
	})

	t.Run("expired entries are swept at most once per interval", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		store := memory.NewSeenStore(
			memory.WithSeenTTL(time.Minute),
			memory.WithSeenSweepInterval(time.Hour),
			memory.WithSeenClock(func() time.Time { return now }),
		)

		_, _ = store.Add(ctx, types.ChannelInstagram, "mid.1")
		now = now.Add(2 * time.Minute)

		// mid.1 has expired but the sweep interval has not passed yet
		added, err := store.Add(ctx, types.ChannelInstagram, "mid.2")
		gt.NoError(t, err)
		gt.B(t, added).True()
		gt.Number(t, store.StoredForTest()).Equal(2)
		gt.Number(t, store.Len()).Equal(1)

		now = now.Add(time.Hour)
		_, _ = store.Add(ctx, types.ChannelInstagram, "mid.3")
		gt.Number(t, store.StoredForTest()).Equal(1)
	})
}
