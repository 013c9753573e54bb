package models

import "time"

// AchievementDef is one achievement available in a guild. Definitions are
// seeded idempotently (upsert on guild_id+code) and never deleted.
type AchievementDef struct {
	GuildID      int64     `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	Code         string    `gorm:"primaryKey;type:varchar(32)" json:"code"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"not null" json:"description"`
	RewardItemID string    `gorm:"type:varchar(64)" json:"reward_item_id,omitempty"` // empty = no reward
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// AchievementUnlock marks an achievement as earned by a member. The composite
// primary key is what makes unlocking idempotent: a second insert for the
// same (guild, user, code) conflicts and is dropped.
type AchievementUnlock struct {
	GuildID    int64  `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID     int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Code       string `gorm:"primaryKey;type:varchar(32)" json:"code"`
	UnlockedTs int64  `gorm:"not null" json:"unlocked_ts"`
}

// Metric names the member statistic an achievement rule compares against.
type Metric string

const (
	MetricMessages Metric = "messages" // ActivityCounter.MessageCount
	MetricLevel    Metric = "level"    // Progression.Level
	MetricStreak   Metric = "streak"   // CheckinRecord.Streak
)

// MemberSnapshot carries the three numbers the rule set is evaluated against.
type MemberSnapshot struct {
	Messages int64
	Level    int64
	Streak   int64
}

// AchievementRule maps a code to a single threshold comparison. Adding an
// achievement means adding a row here, not touching evaluation logic.
type AchievementRule struct {
	Code         string
	Name         string
	Description  string
	Metric       Metric
	Threshold    int64
	RewardItemID string
}

// Met reports whether the snapshot satisfies the rule's threshold.
func (r AchievementRule) Met(s MemberSnapshot) bool {
	switch r.Metric {
	case MetricMessages:
		return s.Messages >= r.Threshold
	case MetricLevel:
		return s.Level >= r.Threshold
	case MetricStreak:
		return s.Streak >= r.Threshold
	}
	return false
}

// DefaultAchievementRules is the stock catalog seeded into every guild.
var DefaultAchievementRules = []AchievementRule{
	// message count
	{Code: "MSG_001", Name: "First Words", Description: "Send your first message", Metric: MetricMessages, Threshold: 1},
	{Code: "MSG_100", Name: "Chatterbox", Description: "Send 100 messages", Metric: MetricMessages, Threshold: 100, RewardItemID: "title_002"},
	{Code: "MSG_500", Name: "Community Regular", Description: "Send 500 messages", Metric: MetricMessages, Threshold: 500, RewardItemID: "title_003"},

	// level
	{Code: "LV_005", Name: "Novice Adventurer", Description: "Reach level 5", Metric: MetricLevel, Threshold: 5, RewardItemID: "title_004"},
	{Code: "LV_010", Name: "Seasoned Player", Description: "Reach level 10", Metric: MetricLevel, Threshold: 10, RewardItemID: "title_005"},

	// check-in streak
	{Code: "CK_003", Name: "Three In A Row", Description: "Check in 3 days in a row", Metric: MetricStreak, Threshold: 3, RewardItemID: "title_006"},
	{Code: "CK_007", Name: "Habit Master", Description: "Check in 7 days in a row", Metric: MetricStreak, Threshold: 7, RewardItemID: "title_007"},
}

// RuleFor looks a rule up by code. Definitions read back from the store are
// matched against this table during evaluation.
func RuleFor(code string) (AchievementRule, bool) {
	for _, r := range DefaultAchievementRules {
		if r.Code == code {
			return r, true
		}
	}
	return AchievementRule{}, false
}
