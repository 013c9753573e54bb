package models

// InventoryEntry is how many of one item a member owns. Quantity never goes
// negative; purchases and reward grants only add, nothing consumes items yet.
type InventoryEntry struct {
	GuildID int64  `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID  int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ItemID  string `gorm:"primaryKey;type:varchar(64)" json:"item_id"`
	Qty     int64  `gorm:"not null;default:0" json:"qty"`
}

// OwnedItem is an inventory row joined with its catalog name, used by
// inventory and title listings.
type OwnedItem struct {
	ItemID string `json:"item_id"`
	Qty    int64  `json:"qty"`
	Name   string `json:"name"`
}
