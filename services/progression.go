package services

import (
	"math"

	"guild-ledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Default gates for activity events (from the seeded bot configuration).
const (
	DefaultXPPerMessage     int64 = 15
	DefaultXPCooldown       int64 = 60
	DefaultActivityCooldown int64 = 30
)

// LevelForXP derives the level from experience: floor(sqrt(xp/100)) + 1.
// The division happens before the square root, so 900 XP is level 4.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp/100))) + 1
}

// ProgressionService owns XP, levels and the message counter. Awards are
// cooldown-gated; a gated call is a normal no-op, not an error.
type ProgressionService struct {
	DB    *gorm.DB
	Clock Clock
}

func NewProgressionService(db *gorm.DB, clock Clock) *ProgressionService {
	return &ProgressionService{DB: db, Clock: clock}
}

// XPResult reports one AwardXP call.
type XPResult struct {
	Granted   bool  `json:"granted"`
	XP        int64 `json:"xp"`
	Level     int   `json:"level"`
	LeveledUp bool  `json:"leveled_up"`
}

// AwardXP adds amount XP if the member's XP cooldown has elapsed and
// recomputes the level. Concurrent awards for the same member cannot
// double-apply: the update is guarded by the timestamp that was read.
func (s *ProgressionService) AwardXP(guildID, userID, amount, cooldownSec int64) (*XPResult, error) {
	now := s.Clock.Now()
	var out XPResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Progression{GuildID: guildID, UserID: userID, Level: 1}).Error; err != nil {
			return err
		}
		var p models.Progression
		if err := tx.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&p).Error; err != nil {
			return err
		}

		if cooldownRemaining(now, p.LastXPTs, cooldownSec) > 0 {
			out = XPResult{Granted: false, XP: p.XP, Level: p.Level}
			return nil
		}

		newXP := p.XP + amount
		newLevel := LevelForXP(newXP)
		res := tx.Model(&models.Progression{}).
			Where("guild_id = ? AND user_id = ? AND last_xp_ts = ?", guildID, userID, p.LastXPTs).
			Updates(map[string]interface{}{"xp": newXP, "level": newLevel, "last_xp_ts": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to a concurrent award; treat as gated
			out = XPResult{Granted: false, XP: p.XP, Level: p.Level}
			return nil
		}
		out = XPResult{Granted: true, XP: newXP, Level: newLevel, LeveledUp: newLevel > p.Level}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BumpActivity increments the message counter under its own cooldown.
// Returns whether the message was counted.
func (s *ProgressionService) BumpActivity(guildID, userID, cooldownSec int64) (bool, error) {
	now := s.Clock.Now()
	granted := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ActivityCounter{GuildID: guildID, UserID: userID}).Error; err != nil {
			return err
		}
		var c models.ActivityCounter
		if err := tx.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&c).Error; err != nil {
			return err
		}
		if cooldownRemaining(now, c.LastCountedTs, cooldownSec) > 0 {
			return nil
		}
		res := tx.Model(&models.ActivityCounter{}).
			Where("guild_id = ? AND user_id = ? AND last_counted_ts = ?", guildID, userID, c.LastCountedTs).
			Updates(map[string]interface{}{
				"message_count":   gorm.Expr("message_count + 1"),
				"last_counted_ts": now,
			})
		if res.Error != nil {
			return res.Error
		}
		granted = res.RowsAffected > 0
		return nil
	})
	return granted, err
}

// GetProgression returns the member's XP state, creating it lazily.
func (s *ProgressionService) GetProgression(guildID, userID int64) (*models.Progression, error) {
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Progression{GuildID: guildID, UserID: userID, Level: 1}).Error; err != nil {
		return nil, err
	}
	var p models.Progression
	if err := s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetMessageCount returns the counted messages for a member (0 if never
// counted; no row is created).
func (s *ProgressionService) GetMessageCount(guildID, userID int64) (int64, error) {
	var c models.ActivityCounter
	err := s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.MessageCount, nil
}

// TopLevels returns the guild's level leaderboard.
func (s *ProgressionService) TopLevels(guildID int64, limit int) ([]models.Progression, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []models.Progression
	err := s.DB.Where("guild_id = ?", guildID).
		Order("level DESC, xp DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// TopMessages returns the guild's message-count leaderboard.
func (s *ProgressionService) TopMessages(guildID int64, limit int) ([]models.ActivityCounter, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []models.ActivityCounter
	err := s.DB.Where("guild_id = ?", guildID).
		Order("message_count DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MessageRank returns a member's position on the message leaderboard along
// with their count and the leaderboard size. ok is false for members with no
// counter row yet.
func (s *ProgressionService) MessageRank(guildID, userID int64) (rank int64, count int64, total int64, ok bool, err error) {
	var c models.ActivityCounter
	err = s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return 0, 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, 0, false, err
	}

	var ahead int64
	if err = s.DB.Model(&models.ActivityCounter{}).
		Where("guild_id = ? AND (message_count > ? OR (message_count = ? AND user_id < ?))",
			guildID, c.MessageCount, c.MessageCount, userID).
		Count(&ahead).Error; err != nil {
		return 0, 0, 0, false, err
	}
	if err = s.DB.Model(&models.ActivityCounter{}).
		Where("guild_id = ?", guildID).
		Count(&total).Error; err != nil {
		return 0, 0, 0, false, err
	}
	return ahead + 1, c.MessageCount, total, true, nil
}
