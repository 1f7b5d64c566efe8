package server

import (
	"heritage/internal/models"
	"heritage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/entries/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, entryID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/entries/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comments, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		UserID:  userID,
		EntryID: entryID,
		Text:    req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventCommentAdded, map[string]interface{}{
		"entry_id":  entryID,
		"author_id": userID,
	})

	return c.Status(fiber.StatusCreated).JSON(comments)
}

// DeleteComment handles DELETE /api/entries/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	removed, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		EntryID:   entryID,
		CommentID: commentID,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishBroadcastEvent(EventCommentDeleted, map[string]interface{}{
		"entry_id":   entryID,
		"comment_id": commentID,
	})
	// An admin removing someone else's comment is moderation; tell the
	// author directly so their client can explain the disappearance.
	if removed.UserID != userID {
		s.publishUserEvent(removed.UserID, EventCommentRemoved, map[string]interface{}{
			"entry_id":   entryID,
			"comment_id": commentID,
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
