package server

import (
	"time"

	"quill/internal/cache"
	"quill/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// cachePage returns middleware that serves a stored rendering of the page,
// keyed by the request URL, for up to ttl. Only status-200 responses are
// stored. Writes never invalidate the entry; readers may see a page up to
// ttl old.
func (s *Server) cachePage(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache.GetClient() == nil || ttl <= 0 {
			return c.Next()
		}

		key := cache.PageKey(c.OriginalURL())
		if body, ok := cache.GetBytes(c.Context(), key); ok {
			middleware.PageCacheLookups.WithLabelValues("hit").Inc()
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Send(body)
		}
		middleware.PageCacheLookups.WithLabelValues("miss").Inc()

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			// The response body buffer is reused by fasthttp; store a copy.
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			cache.SetBytes(c.Context(), key, body, ttl)
		}

		return nil
	}
}
