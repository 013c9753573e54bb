package models

import "time"

// Wallet holds a member's coin balance inside one guild.
// Rows are created lazily on first access and never deleted.
type Wallet struct {
	GuildID   int64     `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Coins     int64     `gorm:"not null;default:0" json:"coins"` // never negative
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
