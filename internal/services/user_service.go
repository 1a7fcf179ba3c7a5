package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"quillpress/internal/db"
	"quillpress/internal/models"
)

// RegisterInput is a sign-up request. Field lengths are checked by the form binding.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Confirm  string
	Role     models.Role
}

// ProfileInput is a settings update. An empty Password keeps the current one.
type ProfileInput struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailTaken reports whether another account than exceptID uses email
func emailTaken(email string, exceptID uint) (bool, error) {
	var count int64
	err := db.DB.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// Register creates a reader or author account. Admins cannot sign up.
func Register(in RegisterInput) (*models.User, error) {
	errs := ValidationError{}
	email := normalizeEmail(in.Email)

	if in.Role != models.RoleReader && in.Role != models.RoleAuthor {
		errs["role"] = "Not a valid choice"
	}
	if in.Password == "" {
		errs["password"] = "This field is required."
	} else if in.Password != in.Confirm {
		errs["confirm_password"] = "Passwords must match"
	}

	taken, err := emailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["email"] = "Email already registered."
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     in.Role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the account matching email and password
func Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := db.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuthFailure
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrAuthFailure
	}
	return &user, nil
}

// UpdateProfile changes the name, email and optionally the password of user
func UpdateProfile(user *models.User, in ProfileInput) error {
	if user == nil {
		return ErrUnauthenticated
	}

	errs := ValidationError{}
	email := normalizeEmail(in.Email)

	if in.Password != "" && in.Password != in.Confirm {
		errs["confirm_password"] = "Passwords must match"
	}
	if email != user.Email {
		taken, err := emailTaken(email, user.ID)
		if err != nil {
			return err
		}
		if taken {
			errs["email"] = "Email already registered."
		}
	}
	if len(errs) > 0 {
		return errs
	}

	updates := map[string]interface{}{
		"name":  strings.TrimSpace(in.Name),
		"email": email,
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = hash
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	user.Name = updates["name"].(string)
	user.Email = email
	if hash, ok := updates["password"].(string); ok {
		user.Password = hash
	}
	return nil
}

// GetUser loads a user by id
func GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsers returns every account, newest first
func ListUsers() ([]models.User, error) {
	var users []models.User
	err := db.DB.Order("created_at DESC, id DESC").Find(&users).Error
	return users, err
}
