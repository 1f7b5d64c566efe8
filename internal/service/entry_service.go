// Package service contains the business logic for entries and comments.
package service

import (
	"context"
	"log/slog"
	"strings"

	"heritage/internal/middleware"
	"heritage/internal/models"
	"heritage/internal/repository"
	"heritage/internal/validation"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type EntryService struct {
	entryRepo repository.EntryRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreateEntryInput struct {
	UserID          uint
	Title           string
	Category        string
	ImageURLs       []string
	Content         string
	Location        string
	MetaDescription string
	Keywords        []string
}

type UpdateEntryInput struct {
	UserID          uint
	EntryID         uint
	Title           string
	Category        string
	ImageURLs       []string
	Content         string
	Location        string
	MetaDescription string
	Keywords        []string
}

type ListEntriesInput struct {
	Search        string
	Category      string
	Sort          string
	Page          int
	Limit         int
	CurrentUserID uint
}

// EntryPage is the paginated list envelope.
type EntryPage struct {
	Entries     []*models.Entry `json:"entries"`
	TotalPages  int64           `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Total       int64           `json:"total"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"isLiked"`
}

func NewEntryService(
	entryRepo repository.EntryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *EntryService {
	return &EntryService{
		entryRepo: entryRepo,
		isAdmin:   isAdmin,
	}
}

// ListEntries returns one page of entries with the total count of all
// filter matches, pagination window excluded.
func (s *EntryService) ListEntries(ctx context.Context, in ListEntriesInput) (*EntryPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	category := strings.TrimSpace(in.Category)
	if category == "all" {
		category = ""
	}
	if category != "" && !models.EntryCategory(category).Valid() {
		return nil, models.NewValidationError("Unknown category: " + category)
	}

	filter := repository.EntryFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: category,
		Sort:     in.Sort,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	entries, total, err := s.entryRepo.List(ctx, filter, in.CurrentUserID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Entry{}
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &EntryPage{
		Entries:     entries,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}, nil
}

func (s *EntryService) CreateEntry(ctx context.Context, in CreateEntryInput) (*models.Entry, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}

	category := models.EntryCategory(in.Category)
	if err := validation.ValidateNewEntry(in.Title, category, in.ImageURLs, in.Content, in.Location); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	slug := validation.DeriveSlug(in.Title)
	if slug == "" {
		return nil, models.NewValidationError("Title does not yield a usable slug")
	}

	entry := &models.Entry{
		Title:           strings.TrimSpace(in.Title),
		Category:        category,
		ImageURLs:       in.ImageURLs,
		Content:         in.Content,
		Location:        in.Location,
		Slug:            slug,
		MetaDescription: in.MetaDescription,
		Keywords:        in.Keywords,
		CreatedByID:     in.UserID,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "entry created",
		slog.Uint64("entry_id", uint64(entry.ID)),
		slog.String("slug", entry.Slug),
	)

	return s.entryRepo.GetByID(ctx, entry.ID, in.UserID)
}

// GetEntry fetches an entry by ID and records the view. The returned copy
// reflects the increment without a second read.
func (s *EntryService) GetEntry(ctx context.Context, id uint, currentUserID uint) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	return s.recordView(ctx, entry)
}

// GetEntryBySlug fetches an entry by slug and records the view.
func (s *EntryService) GetEntryBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Entry, error) {
	entry, err := s.entryRepo.GetBySlug(ctx, slug, currentUserID)
	if err != nil {
		return nil, err
	}
	return s.recordView(ctx, entry)
}

func (s *EntryService) recordView(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if err := s.entryRepo.IncrementViews(ctx, entry.ID); err != nil {
		// The read already succeeded; losing one count beats failing the request.
		middleware.Logger.WarnContext(ctx, "failed to record view",
			slog.Uint64("entry_id", uint64(entry.ID)),
			slog.String("error", err.Error()),
		)
		return entry, nil
	}
	middleware.EntryViews.WithLabelValues(string(entry.Category)).Inc()
	entry.Views++
	return entry, nil
}

// UpdateEntry applies the provided fields to an existing entry. The slug is
// derived at creation and never changes, even when the title does.
func (s *EntryService) UpdateEntry(ctx context.Context, in UpdateEntryInput) (*models.Entry, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.GetByID(ctx, in.EntryID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		entry.Title = strings.TrimSpace(in.Title)
	}
	if in.Category != "" {
		category := models.EntryCategory(in.Category)
		if err := validation.ValidateCategory(category); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		entry.Category = category
	}
	if in.ImageURLs != nil {
		if len(in.ImageURLs) == 0 {
			return nil, models.NewValidationError("At least one image URL is required")
		}
		entry.ImageURLs = in.ImageURLs
	}
	if in.Content != "" {
		entry.Content = in.Content
	}
	if in.Location != "" {
		entry.Location = in.Location
	}
	if in.MetaDescription != "" {
		entry.MetaDescription = in.MetaDescription
	}
	if in.Keywords != nil {
		entry.Keywords = in.Keywords
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	// Existence first so a missing entry reads as 404, not 403.
	if _, err := s.entryRepo.GetByID(ctx, entryID, userID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}
	return s.entryRepo.Delete(ctx, entryID)
}

// ToggleLike flips the caller's like on an entry. Repeating the call returns
// to the prior state; concurrent toggles settle on a valid row set because
// membership changes are single-row constraint-backed writes.
func (s *EntryService) ToggleLike(ctx context.Context, userID, entryID uint) (*LikeResult, error) {
	if _, err := s.entryRepo.GetByID(ctx, entryID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.entryRepo.IsLiked(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = s.entryRepo.Unlike(ctx, userID, entryID)
	} else {
		err = s.entryRepo.Like(ctx, userID, entryID)
	}
	if err != nil {
		return nil, err
	}

	likes, err := s.entryRepo.CountLikes(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: likes, IsLiked: !isLiked}, nil
}

func (s *EntryService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}
