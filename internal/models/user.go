package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents an account in the Agora application.
type User struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string       `gorm:"size:100;not null" json:"name"`
	Email                string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password             string       `gorm:"not null" json:"-"`
	IsAdmin              bool         `gorm:"not null;default:false" json:"is_admin"`
	IsActive             bool         `gorm:"not null;default:true;index" json:"is_active"`
	LastLogin            *time.Time   `json:"last_login,omitempty"`
	PasswordResetToken   *string      `gorm:"size:64;index" json:"-"`
	PasswordResetExpires *time.Time   `json:"-"`
	Avatar               string       `json:"avatar"`
	Profile              *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// UserProfile is the one-to-one extension of User.
type UserProfile struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Avatar          string                      `json:"avatar"`
	Bio             string                      `gorm:"type:text" json:"bio"`
	Location        string                      `gorm:"size:200" json:"location"`
	Website         string                      `gorm:"size:255" json:"website"`
	Phone           string                      `gorm:"size:32" json:"phone"`
	DateOfBirth     *time.Time                  `json:"date_of_birth,omitempty"`
	Occupation      string                      `gorm:"size:100" json:"occupation"`
	Interests       datatypes.JSONSlice[string] `json:"interests"`
	TotalIdeas      int                         `gorm:"not null;default:0" json:"total_ideas"`
	TotalVotes      int                         `gorm:"not null;default:0" json:"total_votes"`
	ReputationScore int                         `gorm:"not null;default:0" json:"reputation_score"`
	IsPublic        bool                        `gorm:"not null;default:true" json:"is_public"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
