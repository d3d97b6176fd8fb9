package service

import (
	"context"

	"quill/internal/forms"
	"quill/internal/models"
	"quill/internal/repository"
)

// CommentService appends comments to existing posts.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Add persists a validated comment on the given post, stamping author and
// post from the caller. Returns NotFound when the post does not exist.
func (s *CommentService) Add(ctx context.Context, authorID, postID uint, form *forms.CommentForm) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{}
	form.Apply(comment)
	comment.AuthorID = authorID
	comment.PostID = postID

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
