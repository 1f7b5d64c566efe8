package server

import (
	"time"

	"heritage/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// FlushEntryCache handles POST /api/admin/cache/flush. It bumps the entry
// list generation and is mainly useful after out-of-band data fixes.
func (s *Server) FlushEntryCache(c *fiber.Ctx) error {
	cache.InvalidateEntryLists(c.UserContext())
	return c.JSON(fiber.Map{
		"status": "flushed",
		"time":   time.Now(),
	})
}
