package server

import (
	"context"

	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_CreatesUserAndOpensSession(t *testing.T) {
	s, app := newTestServer(t)

	resp, err := app.Test(formRequest("/auth/signup", url.Values{
		"username": {"leo"},
		"email":    {"leo@example.com"},
		"password": {testPassword},
	}, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var sessionSet bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			sessionSet = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, sessionSet, "expected a session cookie")

	user, err := s.userRepo.GetByUsername(context.Background(), "leo")
	require.NoError(t, err)
	assert.Equal(t, "leo@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.Password, "password must be stored hashed")
}

func TestSignup_RejectsDuplicateUsername(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "leo")

	resp, err := app.Test(formRequest("/auth/signup", url.Values{
		"username": {"leo"},
		"email":    {"other@example.com"},
		"password": {testPassword},
	}, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Username is taken")
}

func TestSignup_ValidatesFields(t *testing.T) {
	tests := []struct {
		name   string
		fields url.Values
		want   string
	}{
		{"missing username", url.Values{"email": {"a@b.c"}, "password": {testPassword}}, "Username is required"},
		{"bad email", url.Values{"username": {"leo"}, "email": {"nope"}, "password": {testPassword}}, "Enter a valid email"},
		{"short password", url.Values{"username": {"leo"}, "email": {"a@b.c"}, "password": {"short"}}, "at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, app := newTestServer(t)
			resp, err := app.Test(formRequest("/auth/signup", tt.fields, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, bodyString(t, resp), tt.want)
		})
	}
}

func TestLogin_WrongPasswordRerendersForm(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "leo")

	resp, err := app.Test(formRequest("/auth/login", url.Values{
		"username": {"leo"},
		"password": {"not-the-password"},
	}, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Contains(t, bodyString(t, resp), "Invalid username or password")
}

func TestLogin_RedirectsToNext(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "leo")

	resp, err := app.Test(formRequest("/auth/login", url.Values{
		"username": {"leo"},
		"password": {testPassword},
		"next":     {"/create"},
	}, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/create", resp.Header.Get("Location"))
}

func TestLogout_ClearsSession(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "leo")

	resp, err := app.Test(formRequest("/auth/logout", url.Values{}, sessionFor(t, s, user.ID)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			cleared = c.Value == ""
		}
	}
	assert.True(t, cleared, "expected the session cookie to be emptied")
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/posts/7", "/posts/7"},
		{"//evil.example", "/"},
		{"https://evil.example", "/"},
		{"create", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeNext(tt.next), "next=%q", tt.next)
	}
}

func TestSessionUserID_RejectsTamperedToken(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "leo")

	cookie := sessionFor(t, s, user.ID)
	cookie.Value += "x"

	resp := getPage(t, app, "/create", cookie)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/auth/login?next=")
}
