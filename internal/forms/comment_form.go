package forms

import (
	"strings"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CommentForm carries the single user-suppliable field of a comment.
type CommentForm struct {
	Text   string
	Errors map[string]string
}

// ParseCommentForm binds the comment text from the request body.
func ParseCommentForm(c *fiber.Ctx) *CommentForm {
	return &CommentForm{
		Text:   c.FormValue("text"),
		Errors: map[string]string{},
	}
}

// Validate rejects empty and whitespace-only submissions.
func (f *CommentForm) Validate() bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "Text is required"
	}
	return len(f.Errors) == 0
}

// Apply copies the validated text onto a comment. The caller stamps the
// author and post before persisting.
func (f *CommentForm) Apply(comment *models.Comment) {
	comment.Text = f.Text
}
