package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quillpress/internal/db"
	"quillpress/internal/models"
)

func TestRegister(t *testing.T) {
	setupTestDB(t)

	user, err := Register(RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com ",
		Password: "hunter22",
		Confirm:  "hunter22",
		Role:     models.RoleAuthor,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleAuthor, user.Role)
	assert.NotEqual(t, "hunter22", user.Password)
	assert.True(t, CheckPasswordHash("hunter22", user.Password))
}

func TestRegister_Rejects(t *testing.T) {
	setupTestDB(t)
	createUser(t, "taken", models.RoleReader)

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"duplicate email", RegisterInput{Name: "X", Email: "taken@example.com", Password: "p", Confirm: "p", Role: models.RoleReader}, "email"},
		{"confirm mismatch", RegisterInput{Name: "X", Email: "x@example.com", Password: "p", Confirm: "q", Role: models.RoleReader}, "confirm_password"},
		{"admin role", RegisterInput{Name: "X", Email: "x@example.com", Password: "p", Confirm: "p", Role: models.RoleAdmin}, "role"},
		{"missing password", RegisterInput{Name: "X", Email: "x@example.com", Role: models.RoleReader}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Register(tt.in)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr, tt.field)
		})
	}

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticate(t *testing.T) {
	setupTestDB(t)
	created := createUser(t, "alice", models.RoleAuthor)

	user, err := Authenticate("ALICE@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailure)

	_, err = Authenticate("nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestUpdateProfile(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice", models.RoleAuthor)
	createUser(t, "bob", models.RoleReader)

	var verr ValidationError
	err := UpdateProfile(alice, ProfileInput{Name: "Alice", Email: "bob@example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "email")

	err = UpdateProfile(alice, ProfileInput{Name: "Alice", Email: "alice@example.com", Password: "new", Confirm: "old"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "confirm_password")

	require.NoError(t, UpdateProfile(alice, ProfileInput{Name: "Alice L.", Email: "alice@new.example.com", Password: "newpass", Confirm: "newpass"}))

	stored, err := GetUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", stored.Name)
	assert.Equal(t, "alice@new.example.com", stored.Email)
	assert.True(t, CheckPasswordHash("newpass", stored.Password))

	require.NoError(t, UpdateProfile(stored, ProfileInput{Name: "Alice", Email: stored.Email}))
	stored, err = GetUser(alice.ID)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("newpass", stored.Password))
}

func TestGetUser_NotFound(t *testing.T) {
	setupTestDB(t)
	_, err := GetUser(42)
	assert.ErrorIs(t, err, ErrNotFound)
}
