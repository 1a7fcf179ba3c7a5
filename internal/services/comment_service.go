package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quillpress/internal/db"
	"quillpress/internal/models"
)

// CommentInput is what a visitor submits under a post
type CommentInput struct {
	Name     string
	Email    string
	Content  string
	ParentID *uint
}

// AddComment stores a comment on post and notifies the post owner unless the
// acting user is the owner. actor is nil for anonymous visitors.
func AddComment(post *models.Post, actor *models.User, in CommentInput) (*models.Comment, error) {
	if err := Authorize(actor, ActionReadPost, post); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		var parent models.Comment
		err := db.DB.Select("id", "post_id").First(&parent, *in.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ValidationError{"parent_id": "The comment you replied to does not exist"}
		}
		if err != nil {
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent.PostID != post.ID {
			return nil, ValidationError{"parent_id": "The comment you replied to belongs to another post"}
		}
	}

	comment := models.Comment{
		PostID:   post.ID,
		ParentID: in.ParentID,
		Name:     in.Name,
		Email:    in.Email,
		Content:  in.Content,
		Status:   models.CommentStatusActive,
	}
	if err := db.DB.Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := notifyPostOwner(post, actor); err != nil {
		return &comment, err
	}
	return &comment, nil
}

// notifyPostOwner records one notification per qualifying comment, no dedup
func notifyPostOwner(post *models.Post, actor *models.User) error {
	if actor != nil && actor.ID == post.UserID {
		return nil
	}

	notification := models.Notification{
		UserID:  post.UserID,
		Message: fmt.Sprintf("New comment on your post: %s", post.Title),
	}
	if err := db.DB.Omit(clause.Associations).Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListRootComments returns the comments of a post that reply to nothing
func ListRootComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ListAllComments returns every comment, newest first
func ListAllComments() ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Order("created_at DESC, id DESC").Find(&comments).Error
	return comments, err
}

// LoadCommentThread loads every comment of a post into a CommentThread
func LoadCommentThread(postID uint) (*CommentThread, error) {
	var comments []models.Comment
	err := db.DB.Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return NewCommentThread(comments), nil
}

// CommentThread keeps all comments of a post in one slice and indexes them by
// parent id. Replies are found by lookup, never through pointers.
type CommentThread struct {
	comments []models.Comment
	byID     map[uint]int
	children map[uint][]int
	roots    []int
}

// NewCommentThread indexes comments, which must be ordered oldest first.
// A comment whose parent is absent from the slice is treated as a root.
func NewCommentThread(comments []models.Comment) *CommentThread {
	t := &CommentThread{
		comments: comments,
		byID:     make(map[uint]int, len(comments)),
		children: make(map[uint][]int),
	}
	for i, c := range comments {
		t.byID[c.ID] = i
	}
	for i, c := range comments {
		if c.ParentID == nil {
			t.roots = append(t.roots, i)
			continue
		}
		if _, ok := t.byID[*c.ParentID]; !ok {
			t.roots = append(t.roots, i)
			continue
		}
		t.children[*c.ParentID] = append(t.children[*c.ParentID], i)
	}
	return t
}

func (t *CommentThread) collect(idx []int) []models.Comment {
	out := make([]models.Comment, len(idx))
	for i, n := range idx {
		out[i] = t.comments[n]
	}
	return out
}

// Roots returns the top-level comments
func (t *CommentThread) Roots() []models.Comment {
	return t.collect(t.roots)
}

// Replies returns the direct replies to the comment with the given id
func (t *CommentThread) Replies(id uint) []models.Comment {
	return t.collect(t.children[id])
}

// Get returns the comment with the given id
func (t *CommentThread) Get(id uint) (models.Comment, bool) {
	i, ok := t.byID[id]
	if !ok {
		return models.Comment{}, false
	}
	return t.comments[i], true
}

func (t *CommentThread) Len() int {
	return len(t.comments)
}

// ListNotifications returns the latest notifications of a user, newest first
func ListNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(50).
		Find(&notifications).Error
	return notifications, err
}

// UnreadCount counts the notifications of a user that are still unread
func UnreadCount(userID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
