package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, "cats")
	post := createTestPost(t, db, author, group, "a post about cats")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "a post about cats", got.Text)
	assert.Equal(t, "alice", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "cats", got.Group.Slug)
	assert.False(t, got.PubDate.IsZero())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 12345)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_ListAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "bob")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		post := &models.Post{
			Text:     fmt.Sprintf("post %d", i),
			AuthorID: author.ID,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(post).Error)
	}

	posts, err := repo.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 2", posts[0].Text)
	assert.Equal(t, "post 0", posts[2].Text)
}

func TestPostRepository_ListByGroup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "carol")
	cats := createTestGroup(t, db, "cats")
	dogs := createTestGroup(t, db, "dogs")

	for i := 0; i < 13; i++ {
		createTestPost(t, db, author, cats, fmt.Sprintf("cat post %d", i))
	}
	createTestPost(t, db, author, dogs, "dog post")

	count, err := repo.CountByGroup(ctx, cats.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), count)

	pageOne, err := repo.ListByGroup(ctx, cats.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pageOne, 10)

	pageTwo, err := repo.ListByGroup(ctx, cats.ID, 10, 10)
	require.NoError(t, err)
	assert.Len(t, pageTwo, 3)
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	createTestPost(t, db, alice, nil, "from alice")
	createTestPost(t, db, bob, nil, "from bob")

	posts, err := repo.ListByAuthor(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from alice", posts[0].Text)

	count, err := repo.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepository_ListByFollowed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)

	reader := createTestUser(t, db, "reader")
	followed := createTestUser(t, db, "followed")
	ignored := createTestUser(t, db, "ignored")

	createTestPost(t, db, followed, nil, "followed post")
	createTestPost(t, db, ignored, nil, "ignored post")

	require.NoError(t, follows.Follow(ctx, reader.ID, followed.ID))

	feed, err := posts.ListByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "followed post", feed[0].Text)

	count, err := posts.CountByFollowed(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepository_UpdateKeepsPubDateAndAuthor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "dave")
	group := createTestGroup(t, db, "news")
	post := createTestPost(t, db, author, group, "original text")

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	originalPubDate := stored.PubDate

	stored.Text = "edited text"
	stored.GroupID = nil
	require.NoError(t, repo.Update(ctx, stored))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited text", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.WithinDuration(t, originalPubDate, got.PubDate, time.Second)
}
