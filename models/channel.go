package models

import "time"

type Channel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Users     []User    `gorm:"many2many:user_channels;" json:"-"`
}

// UserChannel is the membership join table. The composite primary key keeps a
// user at most once in a channel's member set.
type UserChannel struct {
	UserID    uint `gorm:"primaryKey"`
	ChannelID uint `gorm:"primaryKey"`
	CreatedAt time.Time
}
