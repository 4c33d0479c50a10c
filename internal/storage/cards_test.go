package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache creates a card cache over a migrated temporary database.
func setupTestCache(t *testing.T) *CardCache {
	t.Helper()

	db, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewCardCache(db, time.Hour)
}

func TestCardCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	card := &CachedCard{
		Name:          "Lightning Helix",
		ManaCost:      "{R}{W}",
		CMC:           2,
		TypeLine:      "Instant",
		ColorIdentity: []string{"R", "W"},
	}
	require.NoError(t, cache.Put(ctx, card))

	got, err := cache.Get(ctx, "  lightning HELIX ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lightning Helix", got.Name)
	assert.Equal(t, "{R}{W}", got.ManaCost)
	assert.Equal(t, 2.0, got.CMC)
	assert.Equal(t, []string{"R", "W"}, got.ColorIdentity)
	assert.False(t, got.IsLand)
	assert.False(t, got.CachedAt.IsZero())
}

func TestCardCache_Miss(t *testing.T) {
	got, err := setupTestCache(t).Get(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCardCache_Upsert(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "Forest", TypeLine: "Basic Land — Forest", IsLand: true}))
	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "forest", TypeLine: "Basic Land — Forest", IsLand: true, ColorIdentity: []string{"G"}}))

	n, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := cache.Get(ctx, "Forest")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsLand)
	assert.Equal(t, []string{"G"}, got.ColorIdentity)
}

func TestCardCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	now := time.Now()
	cache.now = func() time.Time { return now }
	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "Opt", ManaCost: "{U}", CMC: 1}))
	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "Ponder", ManaCost: "{U}", CMC: 1}))

	now = now.Add(30 * time.Minute)
	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "Ponder", ManaCost: "{U}", CMC: 1}))

	now = now.Add(45 * time.Minute)
	got, err := cache.Get(ctx, "Opt")
	require.NoError(t, err)
	assert.Nil(t, got, "expired card should miss")

	got, err = cache.Get(ctx, "Ponder")
	require.NoError(t, err)
	assert.NotNil(t, got)

	purged, err := cache.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	n, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCardCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	for _, name := range []string{"Island", "Swamp", "Mountain"} {
		require.NoError(t, cache.Put(ctx, &CachedCard{Name: name, IsLand: true}))
	}

	require.NoError(t, cache.Delete(ctx, "SWAMP"))
	got, err := cache.Get(ctx, "Swamp")
	require.NoError(t, err)
	assert.Nil(t, got)

	cleared, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestCardCache_FrontFaceAlias(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	require.NoError(t, cache.Put(ctx, &CachedCard{
		Name:     "Fire // Ice",
		ManaCost: "{1}{R}",
		CMC:      4,
		TypeLine: "Instant // Instant",
	}))

	got, err := cache.Get(ctx, "fire")
	require.NoError(t, err)
	require.NotNil(t, got, "front face name should hit the cache")
	assert.Equal(t, "Fire // Ice", got.Name)
	assert.Equal(t, "{1}{R}", got.ManaCost)

	got, err = cache.Get(ctx, "Fire // Ice")
	require.NoError(t, err)
	require.NotNil(t, got)

	n, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "aliases are not counted as cards")

	require.NoError(t, cache.Delete(ctx, "Fire // Ice"))
	got, err = cache.Get(ctx, "Fire")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCardCache_PurgeDropsStaleAliases(t *testing.T) {
	ctx := context.Background()
	cache := setupTestCache(t)

	now := time.Now()
	cache.now = func() time.Time { return now }
	require.NoError(t, cache.Put(ctx, &CachedCard{Name: "Delver of Secrets // Insectile Aberration", ManaCost: "{U}", CMC: 1}))

	now = now.Add(2 * time.Hour)
	purged, err := cache.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var aliases int
	require.NoError(t, cache.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM card_alias`).Scan(&aliases))
	assert.Zero(t, aliases)
}

func TestNewCardCache_DefaultTTL(t *testing.T) {
	cache := NewCardCache(nil, 0)
	assert.Equal(t, DefaultCardTTL, cache.ttl)
}
