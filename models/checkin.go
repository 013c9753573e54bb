package models

// CheckinRecord tracks the daily check-in streak.
// A check-in under 24h after the previous one is rejected; a gap of up to
// 48h continues the streak, anything longer resets it to 1.
type CheckinRecord struct {
	GuildID       int64 `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID        int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	LastCheckinTs int64 `gorm:"not null;default:0" json:"last_checkin_ts"`
	Streak        int   `gorm:"not null;default:0" json:"streak"`
}
