// Package forms binds and validates user-submitted fields before any mutation.
// Forms produce populated-but-unsaved entities; handlers stamp ownership
// fields (author, post) before persisting, so clients can never supply them.
package forms

import (
	"context"
	"image"
	"mime/multipart"
	"strconv"
	"strings"

	// Registered image formats accepted for post attachments.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// PostForm carries the user-suppliable fields of a post.
type PostForm struct {
	Text    string
	GroupID *uint
	Image   *multipart.FileHeader

	group  *models.Group
	Errors map[string]string
}

// ParsePostForm binds the post fields from a multipart or urlencoded request.
// A missing image file is not an error; the attachment is optional.
func ParsePostForm(c *fiber.Ctx) *PostForm {
	form := &PostForm{
		Text:   c.FormValue("text"),
		Errors: map[string]string{},
	}

	if raw := strings.TrimSpace(c.FormValue("group")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			form.Errors["group"] = "Select a valid group"
		} else {
			groupID := uint(id)
			form.GroupID = &groupID
		}
	}

	if file, err := c.FormFile("image"); err == nil && file != nil && file.Size > 0 {
		form.Image = file
	}

	return form
}

// Validate checks the bound fields. The group, when supplied, must exist;
// the image, when attached, must be a decodable image payload.
func (f *PostForm) Validate(ctx context.Context, groups repository.GroupRepository) bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "Text is required"
	}

	if f.GroupID != nil && f.Errors["group"] == "" {
		group, err := groups.GetByID(ctx, *f.GroupID)
		if err != nil {
			f.Errors["group"] = "Select a valid group"
		} else {
			f.group = group
		}
	}

	if f.Image != nil {
		if err := checkImage(f.Image); err != nil {
			f.Errors["image"] = "Upload a valid image"
		}
	}

	return len(f.Errors) == 0
}

// Apply copies the validated fields onto a post. The caller stamps the
// author and persists; Apply never touches AuthorID or PubDate.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.GroupID = f.GroupID
	post.Group = f.group
}

// checkImage verifies that the upload decodes as one of the registered
// image formats without reading the whole payload.
func checkImage(file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	_, _, err = image.DecodeConfig(src)
	return err
}
