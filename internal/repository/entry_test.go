package repository

import (
	"context"
	"errors"
	"testing"

	"heritage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRepository_CreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)

	seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	err := repo.Create(ctx, &models.Entry{
		Title:       "Sun Temple Again",
		Category:    models.CategoryTemple,
		Content:     "dup",
		Location:    "Konark",
		Slug:        "sun-temple",
		CreatedByID: user.ID,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.ErrCodeConflict, appErr.Code)
}

func TestEntryRepository_GetByIDDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "asha", false)
	liker := seedUser(t, db, "bala", false)
	entry := seedEntry(t, db, author.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	require.NoError(t, db.Create(&models.Like{EntryID: entry.ID, UserID: liker.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{EntryID: entry.ID, UserID: liker.ID, UserName: "bala", Text: "beautiful"}).Error)

	got, err := repo.GetByID(ctx, entry.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.CommentsCount)
	assert.True(t, got.Liked)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "asha", got.CreatedBy.Name)

	// From the author's perspective the entry is not liked.
	got, err = repo.GetByID(ctx, entry.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestEntryRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	_, err := repo.GetByID(context.Background(), 999, 0)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}

func TestEntryRepository_GetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)
	seedEntry(t, db, user.ID, "Rath Yatra", "rath-yatra", models.CategoryFestival)

	got, err := repo.GetBySlug(ctx, "rath-yatra", 0)
	require.NoError(t, err)
	assert.Equal(t, "Rath Yatra", got.Title)

	_, err = repo.GetBySlug(ctx, "missing-slug", 0)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}

func TestEntryRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)

	seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)
	seedEntry(t, db, user.ID, "Rath Yatra", "rath-yatra", models.CategoryFestival)
	seedEntry(t, db, user.ID, "Jagannath Temple", "jagannath-temple", models.CategoryTemple)

	t.Run("filter by category", func(t *testing.T) {
		entries, total, err := repo.List(ctx, EntryFilter{Category: "temple", Limit: 10}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		entries, total, err := repo.List(ctx, EntryFilter{Search: "TEMPLE", Limit: 10}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("total ignores pagination window", func(t *testing.T) {
		entries, total, err := repo.List(ctx, EntryFilter{Limit: 2}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, entries, 2)

		entries, total, err = repo.List(ctx, EntryFilter{Limit: 2, Offset: 2}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, entries, 1)
	})

	t.Run("title sort", func(t *testing.T) {
		entries, _, err := repo.List(ctx, EntryFilter{Sort: "title", Limit: 10}, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "Jagannath Temple", entries[0].Title)
	})

	t.Run("no matches yields empty page not error", func(t *testing.T) {
		entries, total, err := repo.List(ctx, EntryFilter{Search: "nonexistent", Limit: 10}, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entries)
	})
}

func TestEntryRepository_IncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)
	entry := seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	require.NoError(t, repo.IncrementViews(ctx, entry.ID))
	require.NoError(t, repo.IncrementViews(ctx, entry.ID))

	var views int64
	require.NoError(t, db.Model(&models.Entry{}).Where("id = ?", entry.ID).Pluck("views", &views).Error)
	assert.Equal(t, int64(2), views)

	err := repo.IncrementViews(ctx, 999)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}

func TestEntryRepository_UpdateKeepsConcurrentViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", true)
	entry := seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	loaded, err := repo.GetByID(ctx, entry.ID, user.ID)
	require.NoError(t, err)

	// Views recorded after the load must survive the write-back.
	require.NoError(t, repo.IncrementViews(ctx, entry.ID))
	require.NoError(t, repo.IncrementViews(ctx, entry.ID))

	loaded.Title = "Sun Temple at Konark"
	require.NoError(t, repo.Update(ctx, loaded))

	got, err := repo.GetByID(ctx, entry.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sun Temple at Konark", got.Title)
	assert.Equal(t, int64(2), got.Views)
}

func TestEntryRepository_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)
	entry := seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	require.NoError(t, repo.Like(ctx, user.ID, entry.ID))
	require.NoError(t, repo.Like(ctx, user.ID, entry.ID))

	count, err := repo.CountLikes(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsLiked(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.Unlike(ctx, user.ID, entry.ID))
	require.NoError(t, repo.Unlike(ctx, user.ID, entry.ID))

	count, err = repo.CountLikes(ctx, entry.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEntryRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "asha", false)
	entry := seedEntry(t, db, user.ID, "Sun Temple", "sun-temple", models.CategoryTemple)

	require.NoError(t, db.Create(&models.Like{EntryID: entry.ID, UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{EntryID: entry.ID, UserID: user.ID, UserName: "asha", Text: "hi"}).Error)

	require.NoError(t, repo.Delete(ctx, entry.ID))

	var likes, comments int64
	db.Model(&models.Like{}).Where("entry_id = ?", entry.ID).Count(&likes)
	db.Model(&models.Comment{}).Where("entry_id = ?", entry.ID).Count(&comments)
	assert.Zero(t, likes)
	assert.Zero(t, comments)

	_, err := repo.GetByID(ctx, entry.ID, 0)
	require.Error(t, err)
}
