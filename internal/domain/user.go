package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultPhone = "+1"
	DefaultBio   = "bio"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191" json:"email"`
	Name         string         `gorm:"size:64" json:"name"`
	PasswordHash string         `gorm:"size:191" json:"-"`
	Photo        string         `gorm:"size:255" json:"photo"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Bio          string         `gorm:"size:500" json:"bio"`
	Role         string         `gorm:"size:16" json:"role"` // "user"/"admin"
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Profile 对外投影（不含密码散列）
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo, Phone: u.Phone, Bio: u.Bio}
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	Update(u *User) error
	SoftDelete(id string) error
}
