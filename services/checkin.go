package services

import (
	"log"

	"guild-ledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Check-in windows and reward sizing.
const (
	checkinCooldownSec = 24 * 3600 // one check-in per 24h
	checkinStreakGrace = 48 * 3600 // streak survives gaps up to 48h
	checkinBaseReward  = 100
	checkinStreakBonus = 20  // per consecutive day past the first
	checkinBonusCap    = 200 // bonus never exceeds this
)

// CheckinReward is the coin reward for a given streak length:
// 100 + min(200, (streak-1)*20).
func CheckinReward(streak int) int64 {
	bonus := int64(streak-1) * checkinStreakBonus
	if bonus > checkinBonusCap {
		bonus = checkinBonusCap
	}
	return checkinBaseReward + bonus
}

// CheckinService owns the daily check-in streak. The streak update and the
// coin credit commit in one transaction.
type CheckinService struct {
	DB    *gorm.DB
	Clock Clock
}

func NewCheckinService(db *gorm.DB, clock Clock) *CheckinService {
	return &CheckinService{DB: db, Clock: clock}
}

// CheckinResult reports a successful daily check-in.
type CheckinResult struct {
	Reward  int64 `json:"reward"`
	Streak  int   `json:"streak"`
	Balance int64 `json:"balance"`
}

// Checkin performs the daily check-in. Under 24h since the last one it fails
// with AlreadyCheckedInError and mutates nothing. Otherwise the streak
// continues (gap ≤ 48h) or resets to 1, and the reward is credited.
func (s *CheckinService) Checkin(guildID, userID int64) (*CheckinResult, error) {
	now := s.Clock.Now()
	var out CheckinResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CheckinRecord{GuildID: guildID, UserID: userID}).Error; err != nil {
			return err
		}
		var rec models.CheckinRecord
		if err := tx.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&rec).Error; err != nil {
			return err
		}

		if remain := cooldownRemaining(now, rec.LastCheckinTs, checkinCooldownSec); remain > 0 {
			return &AlreadyCheckedInError{Remaining: remain}
		}

		streak := 1
		if rec.LastCheckinTs > 0 && now-rec.LastCheckinTs <= checkinStreakGrace {
			streak = rec.Streak + 1
		}
		reward := CheckinReward(streak)

		// Guarded by the timestamp we read: a racing check-in for the same
		// member makes this a no-op instead of a double credit.
		res := tx.Model(&models.CheckinRecord{}).
			Where("guild_id = ? AND user_id = ? AND last_checkin_ts = ?", guildID, userID, rec.LastCheckinTs).
			Updates(map[string]interface{}{"last_checkin_ts": now, "streak": streak})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &AlreadyCheckedInError{Remaining: checkinCooldownSec}
		}

		balance, err := adjustCoinsTx(tx, guildID, userID, reward)
		if err != nil {
			return err
		}
		out = CheckinResult{Reward: reward, Streak: streak, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Check-in: guild=%d user=%d streak=%d reward=%d", guildID, userID, out.Streak, out.Reward)
	return &out, nil
}

// GetCheckin returns the member's check-in state (zero values if they never
// checked in; no row is created).
func (s *CheckinService) GetCheckin(guildID, userID int64) (lastTs int64, streak int, err error) {
	var rec models.CheckinRecord
	err = s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return rec.LastCheckinTs, rec.Streak, nil
}
