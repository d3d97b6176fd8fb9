package models

import (
	"time"
)

const previewLength = 15

// Post represents an authored entry in the Quill application.
// PubDate is stamped once at creation and is the only sort key (descending).
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index;<-:create" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is the path of the attached image relative to the upload
	// directory; empty when the post has no image.
	Image string `json:"image,omitempty"`
}

// Preview returns the display string for a post: the first 15 characters
// of its text.
func (p *Post) Preview() string {
	return preview(p.Text)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
