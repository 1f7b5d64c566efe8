// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"heritage/internal/cache"
	"heritage/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, entryID, commentID uint) (*models.Comment, error)
	ListByEntry(ctx context.Context, entryID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, entryID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	slug, err := entrySlug(ctx, r.db, comment.EntryID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	// A new comment changes the entry's comment count, so both the ID and
	// slug keys carry a stale copy.
	cache.InvalidateEntry(ctx, comment.EntryID, slug)
	return nil
}

// GetByID fetches a comment scoped to its entry so a comment ID from another
// entry cannot be addressed through the wrong route.
func (r *commentRepository) GetByID(ctx context.Context, entryID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("entry_id = ?", entryID).
		First(&comment, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByEntry(ctx context.Context, entryID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("entry_id = ?", entryID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, entryID, commentID uint) error {
	slug, err := entrySlug(ctx, r.db, entryID)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&models.Comment{}, commentID)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", commentID)
	}
	cache.InvalidateEntry(ctx, entryID, slug)
	return nil
}
