package models

import (
	"time"
)

// PostStatus is a stage of the post moderation lifecycle
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusPublished PostStatus = "published"
	PostStatusRejected  PostStatus = "rejected"
)

type Post struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	User             User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	ImageFilename    string     `gorm:"size:200" json:"image_filename"` // Optional
	Status           PostStatus `gorm:"size:20;default:'draft';index" json:"status"`
	ScheduledPublish *time.Time `json:"scheduled_publish"` // stored only, never polled
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`

	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	Tags       []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	Comments   []Comment `json:"-"`
}

func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// TagIDs returns the ids of the preloaded tags
func (p *Post) TagIDs() []uint {
	ids := make([]uint, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

// HasTag reports whether the preloaded tags contain id, for form pre-selection
func (p *Post) HasTag(id uint) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
