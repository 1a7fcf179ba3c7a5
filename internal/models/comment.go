package models

import (
	"time"
)

type CommentStatus string

const (
	CommentStatusActive CommentStatus = "active"
)

type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	PostID    uint          `gorm:"not null;index" json:"post_id"`
	Post      Post          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID  *uint         `gorm:"index" json:"parent_id"` // Nullable for root comments
	Name      string        `gorm:"size:100" json:"name"`
	Email     string        `gorm:"size:120" json:"email"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Status    CommentStatus `gorm:"size:10;default:'active'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
