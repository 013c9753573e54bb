package models

// ActiveTitle records which owned title item a member currently wears.
// One row per member; equip overwrites it, unequip deletes it. Ownership is
// checked by the caller before equipping, not here.
type ActiveTitle struct {
	GuildID int64  `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID  int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ItemID  string `gorm:"not null;type:varchar(64)" json:"item_id"`
}
