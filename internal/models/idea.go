package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IdeaStatus is the moderation state of an idea.
type IdeaStatus string

const (
	IdeaStatusPending     IdeaStatus = "pending"
	IdeaStatusApproved    IdeaStatus = "approved"
	IdeaStatusRejected    IdeaStatus = "rejected"
	IdeaStatusImplemented IdeaStatus = "implemented"
)

// Valid reports whether s is one of the known statuses.
func (s IdeaStatus) Valid() bool {
	switch s {
	case IdeaStatusPending, IdeaStatusApproved, IdeaStatusRejected, IdeaStatusImplemented:
		return true
	}
	return false
}

// CanTransitionTo reports whether the moderation graph allows s -> next.
// Setting the current status again is always allowed.
func (s IdeaStatus) CanTransitionTo(next IdeaStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case IdeaStatusPending:
		return next == IdeaStatusApproved || next == IdeaStatusRejected
	case IdeaStatusApproved:
		return next == IdeaStatusImplemented
	}
	return false
}

// Idea is a community-improvement proposal.
type Idea struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string                      `gorm:"size:200;not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Location     string                      `gorm:"type:text;not null" json:"location"`
	Latitude     *float64                    `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude    *float64                    `gorm:"type:decimal(11,8)" json:"longitude"`
	CategoryID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *Category                   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	UserID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status       IdeaStatus                  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Upvotes      int                         `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int                         `gorm:"not null;default:0" json:"downvotes"`
	CommentCount int                         `gorm:"not null;default:0" json:"comment_count"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	IsActive     bool                        `gorm:"not null;default:true;index" json:"is_active"`
	Images       []IdeaImage                 `gorm:"foreignKey:IdeaID" json:"images,omitempty"`
	Comments     []Comment                   `gorm:"foreignKey:IdeaID" json:"comments,omitempty"`
	// UserVote is the requesting user's vote, computed at query time.
	UserVote *string `gorm:"->;-:migration" json:"userVote"`
	// DescriptionHTML is rendered on detail reads, never stored.
	DescriptionHTML string    `gorm:"-" json:"description_html,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (i *Idea) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	if i.Status == "" {
		i.Status = IdeaStatusPending
	}
	return nil
}

// IdeaImage is an uploaded picture attached to an idea.
type IdeaImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID       uuid.UUID `gorm:"type:uuid;not null;index" json:"idea_id"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `gorm:"size:50" json:"mime_type"`
	Size         int64     `json:"size"`
	Path         string    `gorm:"not null" json:"-"`
	URL          string    `gorm:"not null" json:"url"`
	WebPURL      string    `gorm:"column:webp_url" json:"webp_url,omitempty"`
	IsPrimary    bool      `gorm:"not null;default:false" json:"is_primary"`
	SortOrder    int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i *IdeaImage) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
