package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quillpress/internal/db"
	"quillpress/internal/models"
)

// PostInput carries the editable fields of a post
type PostInput struct {
	Title            string
	Content          string
	CategoryID       *uint
	TagIDs           []uint
	ScheduledPublish *time.Time
	ImageFilename    string // empty keeps the current image
}

// publishedOrder puts posts without published_at last, then newest first
const publishedOrder = "published_at IS NULL, published_at DESC, id DESC"

func withDetails(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("Category").Preload("Tags", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("tags.name ASC")
	})
}

// GetPost loads a post with its author, category and tags
func GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := withDetails(db.DB).First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// ValidatePostRefs checks that the referenced category and tags exist
func ValidatePostRefs(in PostInput) error {
	errs := ValidationError{}

	if in.CategoryID != nil {
		var count int64
		if err := db.DB.Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if count == 0 {
			errs["category"] = "Not a valid choice"
		}
	}

	tagIDs := uniqueIDs(in.TagIDs)
	if len(tagIDs) > 0 {
		var count int64
		if err := db.DB.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
			return fmt.Errorf("check tags: %w", err)
		}
		if int(count) != len(tagIDs) {
			errs["tags"] = "Not a valid choice"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreatePost stores a new post for actor and then links its tags.
// The post and its tag links are two separate commits.
func CreatePost(actor *models.User, in PostInput) (*models.Post, error) {
	if err := Authorize(actor, ActionCreatePost, nil); err != nil {
		return nil, err
	}
	if err := ValidatePostRefs(in); err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:        actor.ID,
		Title:         in.Title,
		Content:       in.Content,
		ImageFilename: in.ImageFilename,
		CategoryID:    in.CategoryID,
	}
	ApplyCreate(&post, in.ScheduledPublish, now())

	if err := db.DB.Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := ReplaceTags(post.ID, in.TagIDs); err != nil {
		return nil, err
	}

	return GetPost(post.ID)
}

// UpdatePost applies an edit by actor to post. Status is left unchanged.
func UpdatePost(actor *models.User, post *models.Post, in PostInput) error {
	if err := Authorize(actor, ActionEditPost, post); err != nil {
		return err
	}
	if err := ValidatePostRefs(in); err != nil {
		return err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.CategoryID = in.CategoryID
	post.Category = nil
	if in.ImageFilename != "" {
		post.ImageFilename = in.ImageFilename
	}
	ApplyEdit(post, in.ScheduledPublish, now())

	if err := db.DB.Omit(clause.Associations).Save(post).Error; err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}

	if err := ReplaceTags(post.ID, in.TagIDs); err != nil {
		return err
	}

	post.Tags = nil
	ids := uniqueIDs(in.TagIDs)
	if len(ids) == 0 {
		return nil
	}
	return db.DB.Where("id IN ?", ids).Order("name ASC").Find(&post.Tags).Error
}

// ReplaceTags drops every tag link of a post and inserts the given ones
func ReplaceTags(postID uint, tagIDs []uint) error {
	ids := uniqueIDs(tagIDs)
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("clear tags of post %d: %w", postID, err)
		}
		if len(ids) == 0 {
			return nil
		}
		links := make([]models.PostTag, len(ids))
		for i, id := range ids {
			links[i] = models.PostTag{PostID: postID, TagID: id}
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("link tags to post %d: %w", postID, err)
		}
		return nil
	})
}

// ApprovePost publishes a post. Any prior status is accepted.
func ApprovePost(actor *models.User, postID uint) (*models.Post, error) {
	if err := Authorize(actor, ActionModeratePost, nil); err != nil {
		return nil, err
	}

	post, err := GetPost(postID)
	if err != nil {
		return nil, err
	}

	Approve(post, now())
	err = db.DB.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"status":       post.Status,
		"published_at": post.PublishedAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("approve post %d: %w", post.ID, err)
	}
	return post, nil
}

// RejectPost rejects a post. Any prior status is accepted.
func RejectPost(actor *models.User, postID uint) (*models.Post, error) {
	if err := Authorize(actor, ActionModeratePost, nil); err != nil {
		return nil, err
	}

	post, err := GetPost(postID)
	if err != nil {
		return nil, err
	}

	Reject(post)
	if err := db.DB.Model(&models.Post{}).Where("id = ?", post.ID).Update("status", post.Status).Error; err != nil {
		return nil, fmt.Errorf("reject post %d: %w", post.ID, err)
	}
	return post, nil
}

// ListPublished returns the home listing: published posts only
func ListPublished() ([]models.Post, error) {
	var posts []models.Post
	err := withDetails(db.DB).
		Where("status = ?", models.PostStatusPublished).
		Order(publishedOrder).
		Find(&posts).Error
	return posts, err
}

// ListPending returns posts awaiting moderation, oldest first
func ListPending() ([]models.Post, error) {
	var posts []models.Post
	err := withDetails(db.DB).
		Where("status = ?", models.PostStatusPending).
		Order("created_at ASC, id ASC").
		Find(&posts).Error
	return posts, err
}

// ListPostsByAuthor returns every post owned by userID, newest first
func ListPostsByAuthor(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := withDetails(db.DB).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// ListAllPosts returns every post regardless of status
func ListAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := withDetails(db.DB).Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, err
}

// SearchPosts matches q against titles, case-insensitively.
// Results are not filtered by status.
func SearchPosts(q string) ([]models.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	var posts []models.Post
	err := withDetails(db.DB).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
