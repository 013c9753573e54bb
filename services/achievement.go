package services

import (
	"log"

	"guild-ledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementService evaluates the rule set against member state and unlocks
// achievements at most once per member. Unlock, reward grant and title
// auto-equip commit in one transaction; announcements happen after commit and
// never fail the unlock.
type AchievementService struct {
	DB          *gorm.DB
	Clock       Clock
	Progression *ProgressionService
	Checkins    *CheckinService
	Announcer   Announcer // optional
}

func NewAchievementService(db *gorm.DB, clock Clock, prog *ProgressionService, checkins *CheckinService) *AchievementService {
	return &AchievementService{DB: db, Clock: clock, Progression: prog, Checkins: checkins}
}

// SeedDefinitions upserts the stock achievement catalog for a guild. Safe to
// run on every evaluation.
func (s *AchievementService) SeedDefinitions(guildID int64) error {
	defs := make([]models.AchievementDef, 0, len(models.DefaultAchievementRules))
	for _, r := range models.DefaultAchievementRules {
		defs = append(defs, models.AchievementDef{
			GuildID:      guildID,
			Code:         r.Code,
			Name:         r.Name,
			Description:  r.Description,
			RewardItemID: r.RewardItemID,
		})
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "reward_item_id"}),
	}).Create(&defs).Error
}

// snapshot reads the three numbers the rules compare against.
func (s *AchievementService) snapshot(guildID, userID int64) (models.MemberSnapshot, error) {
	msgs, err := s.Progression.GetMessageCount(guildID, userID)
	if err != nil {
		return models.MemberSnapshot{}, err
	}
	prog, err := s.Progression.GetProgression(guildID, userID)
	if err != nil {
		return models.MemberSnapshot{}, err
	}
	_, streak, err := s.Checkins.GetCheckin(guildID, userID)
	if err != nil {
		return models.MemberSnapshot{}, err
	}
	return models.MemberSnapshot{Messages: msgs, Level: int64(prog.Level), Streak: int64(streak)}, nil
}

// EvaluateAndUnlock seeds the definitions, snapshots the member's state and
// unlocks every achievement whose rule is now met. Returns whether anything
// new unlocked. With announce=false the sink is skipped (bulk event paths use
// this to stay quiet).
func (s *AchievementService) EvaluateAndUnlock(guildID, userID int64, announce bool) (bool, error) {
	if err := s.SeedDefinitions(guildID); err != nil {
		return false, err
	}
	snap, err := s.snapshot(guildID, userID)
	if err != nil {
		return false, err
	}

	var defs []models.AchievementDef
	if err := s.DB.Where("guild_id = ?", guildID).Order("code ASC").Find(&defs).Error; err != nil {
		return false, err
	}

	unlockedAny := false
	for _, def := range defs {
		rule, ok := models.RuleFor(def.Code)
		if !ok || !rule.Met(snap) {
			continue
		}
		unlocked, err := s.unlock(guildID, userID, def, announce)
		if err != nil {
			return unlockedAny, err
		}
		unlockedAny = unlockedAny || unlocked
	}
	return unlockedAny, nil
}

// Unlock records a single achievement for a member. Already-unlocked is a
// defined no-op (false, def, nil), not an error; an unknown code is
// ErrNotFound.
func (s *AchievementService) Unlock(guildID, userID int64, code string) (bool, *models.AchievementDef, error) {
	var def models.AchievementDef
	err := s.DB.Where("guild_id = ? AND code = ?", guildID, code).First(&def).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil, ErrNotFound
	}
	if err != nil {
		return false, nil, err
	}
	unlocked, err := s.unlock(guildID, userID, def, true)
	return unlocked, &def, err
}

// unlock is the state transition Locked → Unlocked. The OnConflict-DoNothing
// insert plus the rows-affected check is what enforces at-most-once: of two
// racing unlocks exactly one inserts the row, and only that one grants the
// reward.
func (s *AchievementService) unlock(guildID, userID int64, def models.AchievementDef, announce bool) (bool, error) {
	autoEquipped := false
	unlocked := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.AchievementUnlock{
			GuildID:    guildID,
			UserID:     userID,
			Code:       def.Code,
			UnlockedTs: s.Clock.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already unlocked
		}
		unlocked = true

		if def.RewardItemID != "" {
			if err := grantItemTx(tx, guildID, userID, def.RewardItemID, 1); err != nil {
				return err
			}
			if models.IsTitleItem(def.RewardItemID) {
				if err := equipTitleTx(tx, guildID, userID, def.RewardItemID); err != nil {
					return err
				}
				autoEquipped = true
			}
		}
		return nil
	})
	if err != nil || !unlocked {
		return false, err
	}

	log.Printf("🏅 Unlocked: guild=%d user=%d code=%s", guildID, userID, def.Code)

	if announce && s.Announcer != nil {
		a := Announcement{
			GuildID:      guildID,
			UserID:       userID,
			Code:         def.Code,
			Name:         def.Name,
			Description:  def.Description,
			RewardItemID: def.RewardItemID,
			AutoEquipped: autoEquipped,
		}
		if err := s.Announcer.AnnounceUnlock(a); err != nil {
			// best-effort: delivery problems never undo the unlock
			log.Printf("⚠️ Announcement failed for %s: %v", def.Code, err)
		}
	}
	return true, nil
}

// ListDefinitions returns every achievement available in a guild.
func (s *AchievementService) ListDefinitions(guildID int64) ([]models.AchievementDef, error) {
	var defs []models.AchievementDef
	err := s.DB.Where("guild_id = ?", guildID).Order("code ASC").Find(&defs).Error
	return defs, err
}

// MemberUnlock is an unlock row joined with its definition.
type MemberUnlock struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	RewardItemID string `json:"reward_item_id,omitempty"`
	UnlockedTs   int64  `json:"unlocked_ts"`
}

// ListMemberUnlocks returns a member's unlocked achievements, oldest first.
func (s *AchievementService) ListMemberUnlocks(guildID, userID int64) ([]MemberUnlock, error) {
	var rows []MemberUnlock
	err := s.DB.Model(&models.AchievementUnlock{}).
		Select("achievement_unlocks.code, achievement_defs.name, achievement_defs.description, achievement_defs.reward_item_id, achievement_unlocks.unlocked_ts").
		Joins("JOIN achievement_defs ON achievement_defs.guild_id = achievement_unlocks.guild_id AND achievement_defs.code = achievement_unlocks.code").
		Where("achievement_unlocks.guild_id = ? AND achievement_unlocks.user_id = ?", guildID, userID).
		Order("achievement_unlocks.unlocked_ts ASC").
		Scan(&rows).Error
	return rows, err
}

// SeededGuilds lists guilds that already have definitions, for the periodic
// refresh job.
func (s *AchievementService) SeededGuilds() ([]int64, error) {
	var ids []int64
	err := s.DB.Model(&models.AchievementDef{}).
		Distinct("guild_id").
		Pluck("guild_id", &ids).Error
	return ids, err
}
