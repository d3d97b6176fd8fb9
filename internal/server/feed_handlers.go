package server

import (
	"quill/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// Index renders the global feed, newest posts first, ten per page.
func (s *Server) Index(c *fiber.Ctx) error {
	total, err := s.postRepo.CountAll(c.Context())
	if err != nil {
		return err
	}

	page := pagination.New(total, s.config.PageSize, c.Query("page"))
	posts, err := s.postRepo.ListAll(c.Context(), page.Size, page.Offset)
	if err != nil {
		return err
	}

	return c.Render("index", s.viewContext(c, fiber.Map{
		"Title": "Latest posts",
		"Posts": posts,
		"Page":  page,
	}))
}

// GroupPosts renders a single group's feed. Unknown slugs are a 404.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, err := s.groupRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}

	total, err := s.postRepo.CountByGroup(c.Context(), group.ID)
	if err != nil {
		return err
	}

	page := pagination.New(total, s.config.PageSize, c.Query("page"))
	posts, err := s.postRepo.ListByGroup(c.Context(), group.ID, page.Size, page.Offset)
	if err != nil {
		return err
	}

	return c.Render("group_list", s.viewContext(c, fiber.Map{
		"Title": group.Title,
		"Group": group,
		"Posts": posts,
		"Page":  page,
	}))
}

// Profile renders an author's page with their posts, post count and, for
// signed-in visitors, whether the visitor follows them.
func (s *Server) Profile(c *fiber.Ctx) error {
	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}

	total, err := s.authorPostCount(c, author.ID)
	if err != nil {
		return err
	}

	page := pagination.New(total, s.config.PageSize, c.Query("page"))
	posts, err := s.postRepo.ListByAuthor(c.Context(), author.ID, page.Size, page.Offset)
	if err != nil {
		return err
	}

	following := false
	if viewer := s.currentUser(c); viewer != nil && viewer.ID != author.ID {
		following, err = s.followService.IsFollowing(c.Context(), viewer.ID, author.ID)
		if err != nil {
			return err
		}
	}

	return c.Render("profile", s.viewContext(c, fiber.Map{
		"Title":     author.Username,
		"Author":    author,
		"PostCount": total,
		"Following": following,
		"Posts":     posts,
		"Page":      page,
	}))
}

// FollowIndex renders the personal feed: posts by the authors the signed-in
// user follows.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	total, err := s.postRepo.CountByFollowed(c.Context(), userID)
	if err != nil {
		return err
	}

	page := pagination.New(total, s.config.PageSize, c.Query("page"))
	posts, err := s.postRepo.ListByFollowed(c.Context(), userID, page.Size, page.Offset)
	if err != nil {
		return err
	}

	return c.Render("follow", s.viewContext(c, fiber.Map{
		"Title": "Your feed",
		"Posts": posts,
		"Page":  page,
	}))
}
