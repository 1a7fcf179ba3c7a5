package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quillpress/internal/models"
)

func TestCreateCategory(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "root", models.RoleAdmin)
	author := createUser(t, "alice", models.RoleAuthor)

	_, err := CreateCategory(author, "Science")
	assert.ErrorIs(t, err, ErrForbidden)

	category, err := CreateCategory(admin, "  Science ")
	require.NoError(t, err)
	assert.Equal(t, "Science", category.Name)

	var verr ValidationError
	_, err = CreateCategory(admin, "science")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "name")

	_, err = CreateCategory(admin, "x")
	require.ErrorAs(t, err, &verr)

	categories, err := ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCreateTag(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "root", models.RoleAdmin)

	_, err := CreateTag(nil, "golang")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = CreateTag(admin, "zebra")
	require.NoError(t, err)
	_, err = CreateTag(admin, "golang")
	require.NoError(t, err)

	var verr ValidationError
	_, err = CreateTag(admin, "golang")
	require.ErrorAs(t, err, &verr)

	tags, err := ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "golang", tags[0].Name)
	assert.Equal(t, "zebra", tags[1].Name)
}
