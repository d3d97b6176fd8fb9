package server

import (
	"quill/internal/forms"

	"github.com/gofiber/fiber/v2"
)

// AddComment attaches a comment by the signed-in user to a post. Valid or
// not, the request resolves to a redirect back to the post's page; an
// invalid submission is simply dropped.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.loadPost(c)
	if err != nil {
		return err
	}

	form := forms.ParseCommentForm(c)
	if form.Validate() {
		if _, err := s.commentService.Add(c.Context(), userID, post.ID, form); err != nil {
			return err
		}
	}

	return c.Redirect("/posts/"+c.Params("id"), fiber.StatusFound)
}
