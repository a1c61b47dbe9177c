package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on an idea. Replies point at a top-level
// comment through ParentID.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	IdeaID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"idea_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	IsActive  bool       `gorm:"not null;default:true;index" json:"is_active"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies   []Comment  `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
