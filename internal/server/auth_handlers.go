package server

import (
	"log/slog"
	"strings"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SignupForm renders the registration page.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.Render("signup", s.viewContext(c, fiber.Map{
		"Title": "Sign up",
		"Next":  c.Query("next"),
	}))
}

// Signup registers a new user and opens a session for them.
func (s *Server) Signup(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	formErrors := map[string]string{}
	if username == "" {
		formErrors["username"] = "Username is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		formErrors["email"] = "Enter a valid email address"
	}
	if len(password) < 8 {
		formErrors["password"] = "Password must be at least 8 characters"
	}

	if len(formErrors) == 0 {
		if existing, err := s.userRepo.GetByEmail(c.Context(), email); err == nil && existing != nil {
			formErrors["email"] = "Email is already registered"
		}
		if _, err := s.userRepo.GetByUsername(c.Context(), username); err == nil {
			formErrors["username"] = "Username is taken"
		}
	}

	if len(formErrors) > 0 {
		return c.Render("signup", s.viewContext(c, fiber.Map{
			"Title":    "Sign up",
			"Errors":   formErrors,
			"Username": username,
			"Email":    email,
			"Next":     c.FormValue("next"),
		}))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.String("username", user.Username),
	)

	if err := s.openSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(safeNext(c.FormValue("next")), fiber.StatusFound)
}

// LoginForm renders the login page.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.Render("login", s.viewContext(c, fiber.Map{
		"Title": "Log in",
		"Next":  c.Query("next"),
	}))
}

// Login checks the credentials and opens a session. A failed login re-renders
// the form with a single generic message; it never says which field was wrong.
func (s *Server) Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return c.Render("login", s.viewContext(c, fiber.Map{
			"Title":    "Log in",
			"Error":    "Invalid username or password",
			"Username": username,
			"Next":     c.FormValue("next"),
		}))
	}

	if err := s.openSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(safeNext(c.FormValue("next")), fiber.StatusFound)
}

// Logout clears the session cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}

// openSession signs a token for the user and sets the session cookie.
func (s *Server) openSession(c *fiber.Ctx, userID uint) error {
	token, err := s.generateToken(userID)
	if err != nil {
		return models.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// safeNext restricts post-login redirects to local paths so the next
// parameter cannot send the browser off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
