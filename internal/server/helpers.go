package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"quill/internal/cache"
	"quill/internal/models"
)

// authorCountTTL bounds staleness of cached author post counts when the
// invalidation on publish is missed.
const authorCountTTL = time.Minute

// viewContext merges the per-page data with context every template needs:
// the current user (for the nav bar) and the request path.
func (s *Server) viewContext(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	data["Path"] = c.Path()

	if user := s.currentUser(c); user != nil {
		data["CurrentUser"] = user
	}

	return data
}

// currentUser loads the sessioned user, or nil for anonymous requests.
// Stale sessions (deleted user) count as anonymous.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		id, valid := s.sessionUserID(c)
		if !valid {
			return nil
		}
		userID = id
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// authorPostCount reads the author's post count through the cache.
// Publishing a post invalidates the entry; the TTL covers everything else.
func (s *Server) authorPostCount(c *fiber.Ctx, authorID uint) (int64, error) {
	var total int64
	err := cache.Aside(c.Context(), cache.AuthorPostCountKey(authorID), &total, authorCountTTL, func() error {
		var err error
		total, err = s.postRepo.CountByAuthor(c.Context(), authorID)
		return err
	})
	return total, err
}

// renderNotFound writes the designated not-found page.
func (s *Server) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("404", s.viewContext(c, fiber.Map{
		"Title": "Page not found",
	}))
}

// parseID extracts a positive integer route parameter. A malformed ID is
// indistinguishable from an unknown one to the client: both are a 404.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
