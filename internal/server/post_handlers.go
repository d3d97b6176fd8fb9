package server

import (
	"quill/internal/cache"
	"quill/internal/forms"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostDetail renders a single post with its comments and, for signed-in
// visitors, an empty comment form.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return s.renderNotFound(c)
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	comments, err := s.commentRepo.ListByPost(c.Context(), post.ID)
	if err != nil {
		return err
	}

	authorPosts, err := s.authorPostCount(c, post.AuthorID)
	if err != nil {
		return err
	}

	return c.Render("post_detail", s.viewContext(c, fiber.Map{
		"Title":       post.Preview(),
		"Post":        post,
		"Comments":    comments,
		"AuthorPosts": authorPosts,
	}))
}

// PostCreateForm renders an empty post form.
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, &forms.PostForm{Errors: map[string]string{}}, false)
}

// PostCreate validates the submission and publishes a post owned by the
// signed-in user, then redirects to their profile.
func (s *Server) PostCreate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	form := forms.ParsePostForm(c)
	if !form.Validate(c.Context(), s.groupRepo) {
		return s.renderPostForm(c, form, false)
	}

	if _, err := s.postService.Create(c.Context(), userID, form); err != nil {
		return err
	}
	cache.Invalidate(c.Context(), cache.AuthorPostCountKey(userID))

	author, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Redirect("/profile/"+author.Username, fiber.StatusFound)
}

// PostEditForm renders the post form pre-filled with the post's current
// fields. Anyone other than the author is silently sent to the feed.
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.loadPost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return c.Redirect("/", fiber.StatusFound)
	}

	form := &forms.PostForm{
		Text:    post.Text,
		GroupID: post.GroupID,
		Errors:  map[string]string{},
	}
	return s.renderPostForm(c, form, true, fiber.Map{"Post": post})
}

// PostEdit applies a validated edit by the author. The publication date and
// author never change; a non-author is redirected away without an error page.
func (s *Server) PostEdit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.loadPost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return c.Redirect("/", fiber.StatusFound)
	}

	form := forms.ParsePostForm(c)
	if !form.Validate(c.Context(), s.groupRepo) {
		return s.renderPostForm(c, form, true, fiber.Map{"Post": post})
	}

	if err := s.postService.Edit(c.Context(), userID, post, form); err != nil {
		return err
	}
	return c.Redirect("/posts/"+c.Params("id"), fiber.StatusFound)
}

// loadPost fetches the post named by the :id route parameter.
func (s *Server) loadPost(c *fiber.Ctx) (*models.Post, error) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, models.NewNotFoundError("Post", c.Params("id"))
	}
	return s.postRepo.GetByID(c.Context(), id)
}

// renderPostForm renders the shared create/edit template. extra entries are
// merged into the view data.
func (s *Server) renderPostForm(c *fiber.Ctx, form *forms.PostForm, isEdit bool, extra ...fiber.Map) error {
	title := "New post"
	if isEdit {
		title = "Edit post"
	}

	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":  title,
		"Form":   form,
		"Groups": groups,
		"IsEdit": isEdit,
	}
	for _, m := range extra {
		for k, v := range m {
			data[k] = v
		}
	}
	return c.Render("create_post", s.viewContext(c, data))
}
