// Package service implements the business rules between handlers and repositories.
package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"quill/internal/forms"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
)

// postImageDir is the subdirectory of the upload dir that post attachments
// are written to.
const postImageDir = "posts"

// PostService owns post creation and editing, including persisting image
// attachments under the upload directory.
type PostService struct {
	posts     repository.PostRepository
	uploadDir string
}

// NewPostService creates a new post service writing attachments below uploadDir.
func NewPostService(posts repository.PostRepository, uploadDir string) *PostService {
	return &PostService{posts: posts, uploadDir: uploadDir}
}

// Create persists a new post from a validated form, stamping the author from
// the session identity. The form must already be validated.
func (s *PostService) Create(ctx context.Context, authorID uint, form *forms.PostForm) (*models.Post, error) {
	post := &models.Post{}
	form.Apply(post)
	post.AuthorID = authorID

	if form.Image != nil {
		path, err := s.saveImage(form.Image)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		post.Image = path
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Edit applies a validated form to an existing post. Only the post's author
// may edit; pub_date and author are never touched. A newly attached image
// replaces the recorded path; without one the existing image is kept.
func (s *PostService) Edit(ctx context.Context, editorID uint, post *models.Post, form *forms.PostForm) error {
	if post.AuthorID != editorID {
		return models.NewUnauthorizedError("only the author can edit a post")
	}

	form.Apply(post)

	if form.Image != nil {
		path, err := s.saveImage(form.Image)
		if err != nil {
			return models.NewInternalError(err)
		}
		post.Image = path
	}

	return s.posts.Update(ctx, post)
}

// saveImage writes the upload below <uploadDir>/posts/ under a fresh name and
// returns the path relative to the upload dir.
func (s *PostService) saveImage(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext
	rel := filepath.ToSlash(filepath.Join(postImageDir, name))

	dir := filepath.Join(s.uploadDir, postImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.uploadDir, rel))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return rel, nil
}
