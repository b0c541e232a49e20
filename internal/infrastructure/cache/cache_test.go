package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vape-shop-api/internal/domain"
)

var blocks = []domain.HomeBlock{
	{Key: domain.BlockHero, Title: "Hero", Enabled: true, Position: 0},
	{Key: domain.BlockBrands, Enabled: false, Position: 1},
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_, ok, err := m.GetBlocks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SetBlocks(ctx, blocks, time.Minute))
	got, ok, err := m.GetBlocks(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blocks, got)

	now = now.Add(time.Minute)
	_, ok, _ = m.GetBlocks(ctx)
	assert.False(t, ok)

	now = now.Add(-time.Minute)
	require.NoError(t, m.SetBlocks(ctx, blocks, time.Minute))
	require.NoError(t, m.InvalidateBlocks(ctx))
	_, ok, _ = m.GetBlocks(ctx)
	assert.False(t, ok)
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRedis(client, "test:")

	_, ok, err := c.GetBlocks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetBlocks(ctx, blocks, time.Minute))
	assert.True(t, mr.Exists("test:homepage:blocks"))

	got, ok, err := c.GetBlocks(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blocks[0].Title, got[0].Title)
	assert.Equal(t, blocks[1].Key, got[1].Key)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.GetBlocks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetBlocks(ctx, blocks, time.Minute))
	require.NoError(t, c.InvalidateBlocks(ctx))
	assert.False(t, mr.Exists("test:homepage:blocks"))
}
