package repository

import (
	"context"
	"testing"

	"heritage/internal/cache"
	"heritage/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCache points the cache package at a throwaway redis for the test.
func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestEntryRepository_LikeDropsBothLookupKeys(t *testing.T) {
	mr := setupCache(t)
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "asha", true)
	reader := seedUser(t, db, "bala", false)
	entry := seedEntry(t, db, author.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	// Anonymous reads warm both the ID and the slug key.
	_, err := repo.GetByID(ctx, entry.ID, 0)
	require.NoError(t, err)
	_, err = repo.GetBySlug(ctx, "sun-temple", 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.EntryKey(entry.ID)))
	require.True(t, mr.Exists(cache.EntrySlugKey("sun-temple")))

	require.NoError(t, repo.Like(ctx, reader.ID, entry.ID))

	assert.False(t, mr.Exists(cache.EntryKey(entry.ID)))
	assert.False(t, mr.Exists(cache.EntrySlugKey("sun-temple")))

	// The next anonymous slug read sees the fresh like count.
	got, err := repo.GetBySlug(ctx, "sun-temple", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)

	require.NoError(t, repo.Unlike(ctx, reader.ID, entry.ID))
	assert.False(t, mr.Exists(cache.EntrySlugKey("sun-temple")))
}

func TestCommentRepository_WritesDropEntryLookupKeys(t *testing.T) {
	mr := setupCache(t)
	db := setupTestDB(t)
	entries := NewEntryRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "asha", false)
	entry := seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	_, err := entries.GetBySlug(ctx, "sun-temple", 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.EntrySlugKey("sun-temple")))

	comment := &models.Comment{EntryID: entry.ID, UserID: user.ID, UserName: user.Name, Text: "lovely"}
	require.NoError(t, comments.Create(ctx, comment))
	assert.False(t, mr.Exists(cache.EntrySlugKey("sun-temple")))

	got, err := entries.GetBySlug(ctx, "sun-temple", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentsCount)
	require.True(t, mr.Exists(cache.EntrySlugKey("sun-temple")))

	require.NoError(t, comments.Delete(ctx, entry.ID, comment.ID))
	assert.False(t, mr.Exists(cache.EntrySlugKey("sun-temple")))
}

func TestEntryRepository_ListCachesAnonymousPages(t *testing.T) {
	setupCache(t)
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "asha", true)
	seedEntry(t, db, author.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	filter := EntryFilter{Sort: "newest", Limit: 12, Offset: 0}

	_, total, err := repo.List(ctx, filter, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// Bypass the repository so the cached page goes stale.
	seedEntry(t, db, author.ID, "Hampi Ruins", "hampi-ruins", models.CategoryMonument)

	_, total, err = repo.List(ctx, filter, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "anonymous pages are served from cache until invalidated")

	// A write through the repository bumps the list generation.
	require.NoError(t, repo.Create(ctx, &models.Entry{
		Title:       "Konark Wheel",
		Category:    models.CategoryTemple,
		Content:     "stone chariot wheel",
		Location:    "Konark",
		Slug:        "konark-wheel",
		CreatedByID: author.ID,
	}))

	listed, total, err := repo.List(ctx, filter, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, listed, 3)

	// Authenticated reads carry per-user liked flags and never come
	// from the page cache.
	_, total, err = repo.List(ctx, filter, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
