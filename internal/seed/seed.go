// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded user gets.
const DemoPassword = "password123"

var groupTemplates = []struct {
	Title string
	Slug  string
}{
	{"Travel notes", "travel"},
	{"Cooking", "cooking"},
	{"Technology", "tech"},
	{"Books", "books"},
	{"Photography", "photo"},
	{"Music", "music"},
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroups persists the built-in set of groups, skipping any whose slug
// already exists.
func (f *Factory) CreateGroups() ([]*models.Group, error) {
	groups := make([]*models.Group, 0, len(groupTemplates))
	for _, tpl := range groupTemplates {
		group := &models.Group{
			Title:       tpl.Title,
			Slug:        tpl.Slug,
			Description: gofakeit.Sentence(12),
		}
		err := f.db.Where(models.Group{Slug: tpl.Slug}).FirstOrCreate(group).Error
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// CreatePost constructs and persists a post for the given author with a
// publication date spread over the past 90 days, so feeds paginate over
// something that looks lived-in.
func (f *Factory) CreatePost(author *models.User, groups []*models.Group, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID: author.ID,
		PubDate: time.Now().
			Add(-time.Duration(f.rnd.Intn(90*24)) * time.Hour).
			Add(-time.Duration(f.rnd.Intn(60)) * time.Minute),
	}

	// Roughly two thirds of posts are filed under a group.
	if len(groups) > 0 && f.rnd.Intn(3) > 0 {
		group := groups[f.rnd.Intn(len(groups))]
		post.GroupID = &group.ID
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a short comment by the given author on the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Text:     gofakeit.Sentence(f.rnd.Intn(12) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Seeder orchestrates factories into a populated database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded rows. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Run populates the database with numUsers users, the built-in groups,
// numPosts posts, comments and a follow mesh between the users.
func (s *Seeder) Run(numUsers, numPosts int) error {
	groups, err := s.factory.CreateGroups()
	if err != nil {
		return fmt.Errorf("seeding groups: %w", err)
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	rnd := s.factory.rnd
	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[rnd.Intn(len(users))]
		post, err := s.factory.CreatePost(author, groups)
		if err != nil {
			return fmt.Errorf("seeding posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts across %d groups", len(posts), len(groups))

	comments := 0
	for _, post := range posts {
		for i := rnd.Intn(4); i > 0; i-- {
			if _, err := s.factory.CreateComment(users[rnd.Intn(len(users))], post); err != nil {
				return fmt.Errorf("seeding comments: %w", err)
			}
			comments++
		}
	}
	log.Printf("seeded %d comments", comments)

	// Each user follows a handful of other authors. Duplicates collapse
	// on the unique index, self-follows are skipped.
	follows := 0
	for _, user := range users {
		for i := rnd.Intn(5); i > 0; i-- {
			author := users[rnd.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			follow := &models.Follow{UserID: user.ID, AuthorID: author.ID}
			err := s.db.Where(models.Follow{UserID: user.ID, AuthorID: author.ID}).
				FirstOrCreate(follow).Error
			if err != nil {
				return fmt.Errorf("seeding follows: %w", err)
			}
			follows++
		}
	}
	log.Printf("seeded %d follow edges", follows)

	return nil
}
