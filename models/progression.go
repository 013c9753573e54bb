package models

// Progression tracks experience and the level derived from it.
// Level is a pure function of XP (see services.LevelForXP) and never
// decreases because XP only grows.
type Progression struct {
	GuildID  int64 `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID   int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	XP       int64 `gorm:"not null;default:0" json:"xp"`
	Level    int   `gorm:"not null;default:1" json:"level"`
	LastXPTs int64 `gorm:"not null;default:0" json:"last_xp_ts"` // unix seconds of last award
}

// ActivityCounter counts qualifying messages per member. The count is
// monotonic; increments are gated by a cooldown independent from XP.
type ActivityCounter struct {
	GuildID       int64 `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID        int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MessageCount  int64 `gorm:"not null;default:0" json:"message_count"`
	LastCountedTs int64 `gorm:"not null;default:0" json:"last_counted_ts"`
}
