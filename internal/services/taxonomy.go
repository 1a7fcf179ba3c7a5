package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quillpress/internal/db"
	"quillpress/internal/models"
)

func checkTaxonomyName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return "", ValidationError{"name": "Field must be between 2 and 50 characters long."}
	}
	return name, nil
}

// CreateCategory adds a category. Names are unique.
func CreateCategory(actor *models.User, name string) (*models.Category, error) {
	if err := Authorize(actor, ActionManageTaxonomy, nil); err != nil {
		return nil, err
	}
	name, err := checkTaxonomyName(name)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.DB.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return nil, ValidationError{"name": "Category already exists."}
	}

	category := models.Category{Name: name}
	if err := db.DB.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// ListCategories returns all categories by name
func ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := db.DB.Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateTag adds a tag. Names are unique.
func CreateTag(actor *models.User, name string) (*models.Tag, error) {
	if err := Authorize(actor, ActionManageTaxonomy, nil); err != nil {
		return nil, err
	}
	name, err := checkTaxonomyName(name)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.DB.Model(&models.Tag{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check tag name: %w", err)
	}
	if count > 0 {
		return nil, ValidationError{"name": "Tag already exists."}
	}

	tag := models.Tag{Name: name}
	if err := db.DB.Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &tag, nil
}

// ListTags returns all tags by name
func ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := db.DB.Order("name ASC").Find(&tags).Error
	return tags, err
}
