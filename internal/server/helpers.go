package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"heritage/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten signals that the handler already wrote an error response
// to the client, so the caller should just return nil to Fiber.
var errResponseWritten = errors.New("response written")

// parseID extracts and validates a positive integer route parameter.
// On failure it writes a 400 response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		appErr := models.NewValidationError(fmt.Sprintf("Invalid %s", humanizeParam(param)))
		_ = models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a camelCase route param name into words for
// error messages ("commentId" -> "comment id").
func humanizeParam(param string) string {
	return strings.ToLower(strings.Join(splitCamel(param), " "))
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID returns the authenticated user ID from locals, or 0 if the
// request is anonymous.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// isAdmin checks the admin flag for a user within a request context.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	return s.isAdminByUserID(c.UserContext(), userID)
}

// isAdminByUserID checks the admin flag directly against the database so a
// stale cache entry can never grant or revoke admin access.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var isAdmin bool
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("is_admin").
		Where("id = ?", userID).
		Scan(&isAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return isAdmin, nil
}
