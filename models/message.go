package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID        string `gorm:"primaryKey;size:36"`
	ChannelID uint   `gorm:"index;not null"`
	Channel   Channel
	ClientID  string `gorm:"size:64;not null;index"` // author username
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	EditedAt  *time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Reactions []Reaction
}

// Reaction is a single emoji annotation by one user. A user can add the same
// unicode to the same message once.
type Reaction struct {
	ID        string `gorm:"primaryKey;size:36"`
	MessageID string `gorm:"size:36;not null;uniqueIndex:idx_reaction_once"`
	ClientID  string `gorm:"size:64;not null;uniqueIndex:idx_reaction_once"`
	Unicode   string `gorm:"size:32;not null;uniqueIndex:idx_reaction_once"`
	CreatedAt time.Time
}
