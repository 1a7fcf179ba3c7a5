package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quillpress/internal/config"
	"quillpress/internal/db"
	"quillpress/internal/models"
)

// setupTestDB points db.DB at a fresh sqlite file for the test
func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := db.Open(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() {
		db.DB = prev
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

// freezeTime makes now() return at for the rest of the test
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func createUser(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	hash, err := HashPassword("password")
	require.NoError(t, err)

	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: hash,
		Role:     role,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createPost(t *testing.T, owner *models.User, title string, status models.PostStatus) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:  owner.ID,
		Title:   title,
		Content: "Body of " + title,
		Status:  status,
	}
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

func createTag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(t, db.DB.Create(tag).Error)
	return tag
}

func uintPtr(v uint) *uint {
	return &v
}
