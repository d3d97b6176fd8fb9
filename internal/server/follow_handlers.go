package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ProfileFollow subscribes the signed-in user to the named author and
// returns to the author's profile. Repeat requests and self-follows are
// accepted and change nothing.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}

	if err := s.followService.Follow(c.Context(), userID, author.ID); err != nil {
		return err
	}
	return c.Redirect("/profile/"+author.Username, fiber.StatusFound)
}

// ProfileUnfollow removes the subscription, whether or not one exists. An
// unknown username matches no rows and the request still redirects; the
// profile page answers the follow-up GET with its own 404.
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.userRepo.GetByUsername(c.Context(), username)
	if err == nil {
		if err := s.followService.Unfollow(c.Context(), userID, author.ID); err != nil {
			return err
		}
	} else if !models.IsNotFound(err) {
		return err
	}

	return c.Redirect("/profile/"+username, fiber.StatusFound)
}
