package models

import (
	"time"
)

// Role is the closed set of account roles
type Role string

const (
	RoleReader Role = "reader"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:200;not null" json:"-"` // bcrypt hash
	Role      Role      `gorm:"size:10;default:'reader';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Posts         []Post         `json:"-"`
	Notifications []Notification `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsAuthor() bool {
	return u != nil && u.Role == RoleAuthor
}
