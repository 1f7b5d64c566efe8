package server

import (
	"strconv"
	"time"

	"heritage/internal/models"
	"heritage/internal/service"

	"github.com/gofiber/fiber/v2"
)

type entryRequest struct {
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	ImageURLs       []string `json:"imageUrls"`
	Content         string   `json:"content"`
	Location        string   `json:"location"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// GetEntries handles GET /api/entries
//
//	@Summary		List entries
//	@Description	Paginated entry listing with search, category filter and sorting
//	@Tags			entries
//	@Produce		json
//	@Param			search		query	string	false	"Search term"
//	@Param			category	query	string	false	"Category filter, or 'all'"
//	@Param			sort		query	string	false	"newest | oldest | views | title"
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size (max 100)"
//	@Success		200	{object}	service.EntryPage
//	@Router			/api/entries [get]
func (s *Server) GetEntries(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, _ := s.optionalUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultPageSize)))

	result, err := s.entryService.ListEntries(ctx, service.ListEntriesInput{
		Search:        c.Query("search"),
		Category:      c.Query("category"),
		Sort:          c.Query("sort"),
		Page:          page,
		Limit:         limit,
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(result)
}

// GetEntry handles GET /api/entries/:id
func (s *Server) GetEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := s.optionalUserID(c)

	entry, err := s.entryService.GetEntry(ctx, entryID, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(entry)
}

// GetEntryBySlug handles GET /api/entries/slug/:slug
func (s *Server) GetEntryBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()

	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Slug is required"))
	}

	userID, _ := s.optionalUserID(c)

	entry, err := s.entryService.GetEntryBySlug(ctx, slug, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(entry)
}

// CreateEntry handles POST /api/entries (admin only)
func (s *Server) CreateEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.CreateEntry(ctx, service.CreateEntryInput{
		UserID:          userID,
		Title:           req.Title,
		Category:        req.Category,
		ImageURLs:       req.ImageURLs,
		Content:         req.Content,
		Location:        req.Location,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventEntryCreated, map[string]interface{}{
		"entry_id":   entry.ID,
		"slug":       entry.Slug,
		"category":   entry.Category,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateEntry handles PUT /api/entries/:id (admin only)
func (s *Server) UpdateEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.UpdateEntry(ctx, service.UpdateEntryInput{
		UserID:          userID,
		EntryID:         entryID,
		Title:           req.Title,
		Category:        req.Category,
		ImageURLs:       req.ImageURLs,
		Content:         req.Content,
		Location:        req.Location,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventEntryUpdated, map[string]interface{}{
		"entry_id": entry.ID,
		"slug":     entry.Slug,
	})

	return c.JSON(entry)
}

// DeleteEntry handles DELETE /api/entries/:id (admin only)
func (s *Server) DeleteEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.entryService.DeleteEntry(ctx, userID, entryID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventEntryDeleted, map[string]interface{}{
		"entry_id": entryID,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/entries/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.entryService.ToggleLike(ctx, userID, entryID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventEntryReactionUpdated, map[string]interface{}{
		"entry_id": entryID,
		"likes":    result.Likes,
	})

	return c.JSON(result)
}
