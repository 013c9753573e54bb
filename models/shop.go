package models

import (
	"strings"
	"time"
)

// TitleItemPrefix marks shop items that can be equipped as a display title.
// The convention comes from the seeded catalog: title_001, title_002, ...
const TitleItemPrefix = "title_"

// ShopItem is one purchasable catalog entry, unique per guild.
// ItemID is immutable once created.
type ShopItem struct {
	GuildID     int64     `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	ItemID      string    `gorm:"primaryKey;type:varchar(64)" json:"item_id"`
	Name        string    `gorm:"not null" json:"name"`
	Price       int64     `gorm:"not null" json:"price"` // coins, >= 0
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// IsTitle reports whether the item can be worn as a display title.
func (s ShopItem) IsTitle() bool {
	return IsTitleItem(s.ItemID)
}

func IsTitleItem(itemID string) bool {
	return strings.HasPrefix(itemID, TitleItemPrefix)
}
