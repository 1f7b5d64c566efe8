package service

import (
	"context"
	"strings"

	"heritage/internal/models"
	"heritage/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	entryRepo   repository.EntryRepository
	userRepo    repository.UserRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type AddCommentInput struct {
	UserID  uint
	EntryID uint
	Text    string
}

type DeleteCommentInput struct {
	UserID    uint
	EntryID   uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	entryRepo repository.EntryRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		entryRepo:   entryRepo,
		userRepo:    userRepo,
		isAdmin:     isAdmin,
	}
}

// AddComment appends a comment to an entry and returns the entry's full
// comment list in display order. The commenter's name is snapshotted at
// creation and never re-synced with later profile changes.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) ([]*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	if _, err := s.entryRepo.GetByID(ctx, in.EntryID, in.UserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EntryID:  in.EntryID,
		UserID:   in.UserID,
		UserName: user.Name,
		Text:     strings.TrimSpace(in.Text),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.ListComments(ctx, in.EntryID)
}

// ListComments returns all comments of an entry, oldest first.
func (s *CommentService) ListComments(ctx context.Context, entryID uint) ([]*models.Comment, error) {
	if _, err := s.entryRepo.GetByID(ctx, entryID, 0); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

// DeleteComment removes a comment and returns the removed record so callers
// can tell whose comment it was. Only the comment's author or an admin may
// delete it; existence is checked before authorization so a missing comment
// reads as not found, never forbidden.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.EntryID, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, in.EntryID, in.CommentID); err != nil {
		return nil, err
	}
	return comment, nil
}
