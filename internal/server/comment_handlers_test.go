package server

import (
	"net/http"
	"net/url"
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentCount(t *testing.T, s *Server) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
	return count
}

func TestAddComment_AnonymousRedirectsToLoginWithReturnPath(t *testing.T) {
	s, app := newTestServer(t)
	author := createTestUser(t, s, "leo")
	createTestPost(t, s, author, "a post")

	resp, err := app.Test(formRequest("/posts/1/comment", url.Values{
		"text": {"drive-by comment"},
	}, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fposts%2F1%2Fcomment", resp.Header.Get("Location"))
	assert.Zero(t, commentCount(t, s))
}

func TestAddComment_StampsAuthorAndRedirectsToPost(t *testing.T) {
	s, app := newTestServer(t)
	author := createTestUser(t, s, "leo")
	commenter := createTestUser(t, s, "mia")
	createTestPost(t, s, author, "a post")

	resp, err := app.Test(formRequest("/posts/1/comment", url.Values{
		"text": {"nice one"},
	}, sessionFor(t, s, commenter.ID)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/posts/1", resp.Header.Get("Location"))

	var comment models.Comment
	require.NoError(t, s.db.First(&comment).Error)
	assert.Equal(t, commenter.ID, comment.AuthorID)
	assert.Equal(t, uint(1), comment.PostID)
	assert.Equal(t, "nice one", comment.Text)
}

func TestAddComment_BlankSubmissionIsDroppedButStillRedirects(t *testing.T) {
	s, app := newTestServer(t)
	author := createTestUser(t, s, "leo")
	createTestPost(t, s, author, "a post")

	resp, err := app.Test(formRequest("/posts/1/comment", url.Values{
		"text": {"   "},
	}, sessionFor(t, s, author.ID)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/posts/1", resp.Header.Get("Location"))
	assert.Zero(t, commentCount(t, s))
}

func TestAddComment_UnknownPostIs404(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "leo")

	resp, err := app.Test(formRequest("/posts/999/comment", url.Values{
		"text": {"hello?"},
	}, sessionFor(t, s, user.ID)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Page not found")
}
