package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(rdb, 10*time.Minute)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := []domain.Campaign{
		{ID: "42", Name: "Q3 outreach", Status: domain.CampaignSending, SentCount: 7},
		{ID: "43", Name: "Follow-up", Status: domain.CampaignDraft},
	}
	require.NoError(t, c.Save(ctx, in))

	out, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadEmpty(t *testing.T) {
	c, _ := newTestCache(t)
	out, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCorruptSnapshotDiscarded(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Set(campaignsKey, "{not json")

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSnapshotExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, []domain.Campaign{{ID: "1"}}))

	mr.FastForward(11 * time.Minute)

	out, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, []domain.Campaign{{ID: "1"}}))
	require.NoError(t, c.Clear(ctx))
	out, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, out)
}
