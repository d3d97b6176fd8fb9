package service

import (
	"context"

	"quill/internal/repository"
)

// FollowService enforces the follow rules the schema does not: a user never
// follows themselves, and following twice leaves a single row.
type FollowService struct {
	follows repository.FollowRepository
}

// NewFollowService creates a new follow service.
func NewFollowService(follows repository.FollowRepository) *FollowService {
	return &FollowService{follows: follows}
}

// Follow subscribes user to author. Self-follow requests are silently
// ignored; repeated requests are idempotent.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return nil
	}
	return s.follows.Follow(ctx, userID, authorID)
}

// Unfollow removes the subscription; absent rows are a no-op.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uint) error {
	return s.follows.Unfollow(ctx, userID, authorID)
}

// IsFollowing reports whether user currently follows author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, userID, authorID)
}
