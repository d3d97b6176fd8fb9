package models

import (
	"time"
)

// Comment is an append-only reply to a post. Comments are never edited or
// deleted through the application; they only disappear with their post or
// author.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Post     Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"autoCreateTime;index;<-:create" json:"created"`
}

// Preview returns the display string for a comment: the first 15 characters
// of its text.
func (c *Comment) Preview() string {
	return preview(c.Text)
}
