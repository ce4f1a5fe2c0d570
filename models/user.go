package models

import "time"

type User struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"` // unique and generated by server
	CreatedAt time.Time `json:"createdAt"`
	Channels  []Channel `gorm:"many2many:user_channels;" json:"-"`
}
