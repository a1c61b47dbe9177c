package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteType is the side a user took on an idea.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote represents a user's vote on an idea.
// The combination of IdeaID and UserID must be unique.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_idea_user" json:"idea_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_idea_user;index" json:"user_id"`
	VoteType  VoteType  `gorm:"size:4;not null" json:"vote_type"`
	Idea      *Idea     `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vote) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// VoteOutcome says what a cast did to the voter's row.
type VoteOutcome string

const (
	VoteCreated  VoteOutcome = "created"
	VoteRemoved  VoteOutcome = "removed"
	VoteSwitched VoteOutcome = "switched"
)

// VoteResult is the state of an idea's tally after a cast.
type VoteResult struct {
	Outcome   VoteOutcome `json:"outcome"`
	Upvotes   int         `json:"upvotes"`
	Downvotes int         `json:"downvotes"`
	UserVote  *VoteType   `json:"userVote"`
}
