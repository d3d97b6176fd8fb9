package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "correct-horse-42"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                "0",
		SessionSecret:       "test-session-secret",
		Env:                 "test",
		PageSize:            10,
		FeedCacheTTLSeconds: 0,
		UploadDir:           t.TempDir(),
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestServer builds a server over an in-memory database with the page
// cache disabled.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	s, err := NewServerWithDeps(testConfig(t), openTestDB(t), nil)
	require.NoError(t, err)
	return s, s.setupApp()
}

// newCachedTestServer builds a server whose feed cache is backed by an
// embedded Redis, returned so tests can advance its clock.
func newCachedTestServer(t *testing.T) (*Server, *fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testConfig(t)
	cfg.FeedCacheTTLSeconds = 20

	s, err := NewServerWithDeps(cfg, openTestDB(t), client)
	require.NoError(t, err)
	return s, s.setupApp(), mr
}

func createTestUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func createTestGroup(t *testing.T, s *Server, slug string) *models.Group {
	t.Helper()
	group := &models.Group{
		Title:       "Group " + slug,
		Slug:        slug,
		Description: "About " + slug,
	}
	require.NoError(t, s.db.Create(group).Error)
	return group
}

func createTestPost(t *testing.T, s *Server, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, s.db.Create(post).Error)
	return post
}

// sessionFor signs a session token for the user and wraps it in a cookie.
func sessionFor(t *testing.T, s *Server, userID uint) *http.Cookie {
	t.Helper()
	token, err := s.generateToken(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

// formRequest builds a urlencoded POST, optionally with a session cookie.
func formRequest(path string, fields url.Values, session *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if session != nil {
		req.AddCookie(session)
	}
	return req
}

// multipartRequest builds a multipart POST with the given fields and an
// optional image file named "image".
func multipartRequest(t *testing.T, path string, fields map[string]string, imageData []byte, session *http.Cookie) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageData != nil {
		part, err := w.CreateFormFile("image", "upload.png")
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if session != nil {
		req.AddCookie(session)
	}
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func getPage(t *testing.T, app *fiber.App, path string, session *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func postText(n int) string {
	return fmt.Sprintf("post number %02d", n)
}
