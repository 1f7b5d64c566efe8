// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"heritage/internal/cache"
	"heritage/internal/models"
	"heritage/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryFilter carries the list query parameters down to SQL.
type EntryFilter struct {
	Search   string
	Category string
	Sort     string
	Limit    int
	Offset   int
}

// EntryRepository defines the interface for entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Entry, error)
	GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Entry, error)
	List(ctx context.Context, filter EntryFilter, currentUserID uint) ([]*models.Entry, int64, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, entryID uint) (bool, error)
	Like(ctx context.Context, userID, entryID uint) error
	Unlike(ctx context.Context, userID, entryID uint) error
	CountLikes(ctx context.Context, entryID uint) (int64, error)
}

// entryRepository implements EntryRepository
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	err := observability.TracedQuery(ctx, "create", "entries", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(entry).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An entry with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateEntryLists(ctx)
	return nil
}

func (r *entryRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Entry, error) {
	var entry models.Entry

	load := func() error {
		err := r.applyEntryDetails(r.db.WithContext(ctx), currentUserID).
			Preload("CreatedBy").
			First(&entry, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Entry", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.EntryKey(id), &entry, cache.EntryTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Entry, error) {
	var entry models.Entry

	load := func() error {
		err := r.applyEntryDetails(r.db.WithContext(ctx), currentUserID).
			Preload("CreatedBy").
			Where("entries.slug = ?", slug).
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Entry", slug)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.EntrySlugKey(slug), &entry, cache.EntryTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// entryListPage is the cached shape of one anonymous list page.
type entryListPage struct {
	Entries []*models.Entry `json:"entries"`
	Total   int64           `json:"total"`
}

func (r *entryRepository) List(ctx context.Context, filter EntryFilter, currentUserID uint) ([]*models.Entry, int64, error) {
	if currentUserID == 0 {
		var page entryListPage
		key := cache.EntryListKey(ctx, filter.Search, filter.Category, filter.Sort, filter.Limit, filter.Offset)
		err := cache.Aside(ctx, key, &page, cache.EntryListTTL, func() error {
			entries, total, err := r.queryList(ctx, filter, 0)
			if err != nil {
				return err
			}
			page = entryListPage{Entries: entries, Total: total}
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Entries, page.Total, nil
	}
	return r.queryList(ctx, filter, currentUserID)
}

func (r *entryRepository) queryList(ctx context.Context, filter EntryFilter, currentUserID uint) ([]*models.Entry, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Entry{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		base = base.Where(
			"LOWER(entries.title) LIKE ? OR LOWER(entries.content) LIKE ? OR LOWER(entries.location) LIKE ? OR LOWER(entries.category) LIKE ?",
			like, like, like, like,
		)
	}
	if filter.Category != "" {
		base = base.Where("entries.category = ?", filter.Category)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []*models.Entry
	err := r.applySort(r.applyEntryDetails(base, currentUserID), filter.Sort).
		Preload("CreatedBy").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count is a SELECT alias from applyEntryDetails and may be
// referenced in ORDER BY at the same query level.
func (r *entryRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return db.Order("entries.created_at ASC")
	case "views":
		return db.Order("entries.views DESC, entries.created_at DESC")
	case "likes":
		return db.Order("likes_count DESC, entries.created_at DESC")
	case "title":
		return db.Order("LOWER(entries.title) ASC")
	default: // "newest" and anything unrecognized
		return db.Order("entries.created_at DESC")
	}
}

// applyEntryDetails adds subqueries to fetch counts and liked status in a single query.
func (r *entryRepository) applyEntryDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "entries.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.entry_id = entries.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.entry_id = entries.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.entry_id = entries.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	// Views are bumped concurrently by IncrementViews with a raw UPDATE;
	// writing the struct's copy back would lose those increments.
	err := observability.TracedQuery(ctx, "update", "entries", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Omit("views").Save(entry).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An entry with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateEntry(ctx, entry.ID, entry.Slug)
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	slug, err := entrySlug(ctx, r.db, id)
	if err != nil {
		return err
	}

	err = observability.TracedQuery(ctx, "delete", "entries", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("entry_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entry_id = ?", id).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Entry{}, id).Error
		})
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEntry(ctx, id, slug)
	return nil
}

// IncrementViews bumps the counter with a single UPDATE so concurrent reads
// never lose increments.
func (r *entryRepository) IncrementViews(ctx context.Context, id uint) error {
	var rows int64
	err := observability.TracedQuery(ctx, "increment_views", "entries", func(ctx context.Context) error {
		result := r.db.WithContext(ctx).
			Model(&models.Entry{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		rows = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if rows == 0 {
		return models.NewNotFoundError("Entry", id)
	}
	return nil
}

func (r *entryRepository) IsLiked(ctx context.Context, userID, entryID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND entry_id = ?", userID, entryID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like inserts the row with a conflict-ignoring INSERT. Concurrent toggles
// for the same pair collapse into one row instead of erroring.
func (r *entryRepository) Like(ctx context.Context, userID, entryID uint) error {
	slug, err := entrySlug(ctx, r.db, entryID)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&models.Like{EntryID: entryID, UserID: userID}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEntry(ctx, entryID, slug)
	return nil
}

func (r *entryRepository) Unlike(ctx context.Context, userID, entryID uint) error {
	slug, err := entrySlug(ctx, r.db, entryID)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND entry_id = ?", userID, entryID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEntry(ctx, entryID, slug)
	return nil
}

func (r *entryRepository) CountLikes(ctx context.Context, entryID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("entry_id = ?", entryID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// entrySlug looks up the slug for an entry so the slug-addressed cache key
// can be dropped alongside the ID key on any write that touches the entry's
// derived counts.
func entrySlug(ctx context.Context, db *gorm.DB, id uint) (string, error) {
	var slug string
	err := db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("id = ?", id).
		Pluck("slug", &slug).Error
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return slug, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, SQLite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
