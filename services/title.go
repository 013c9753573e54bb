package services

import (
	"strings"

	"guild-ledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleService owns which title item a member displays. Equip is a plain
// overwrite: ownership is the caller's responsibility (the HTTP layer checks
// inventory before calling), which keeps the operation idempotent.
type TitleService struct {
	DB *gorm.DB
}

func NewTitleService(db *gorm.DB) *TitleService {
	return &TitleService{DB: db}
}

// Equip sets the member's active title, replacing any previous one.
func (s *TitleService) Equip(guildID, userID int64, itemID string) error {
	return equipTitleTx(s.DB, guildID, userID, itemID)
}

// equipTitleTx is the overwrite itself, shared with the achievement engine so
// auto-equips ride the unlock transaction.
func equipTitleTx(tx *gorm.DB, guildID, userID int64, itemID string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_id"}),
	}).Create(&models.ActiveTitle{GuildID: guildID, UserID: userID, ItemID: itemID}).Error
}

// Unequip clears the member's active title. Clearing an already-clear title
// is a no-op.
func (s *TitleService) Unequip(guildID, userID int64) error {
	return s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).
		Delete(&models.ActiveTitle{}).Error
}

// EquippedTitleName resolves the active title through the catalog. ok is
// false when nothing is equipped or the catalog entry is gone.
func (s *TitleService) EquippedTitleName(guildID, userID int64) (string, bool, error) {
	var name string
	err := s.DB.Model(&models.ActiveTitle{}).
		Select("shop_items.name").
		Joins("JOIN shop_items ON shop_items.guild_id = active_titles.guild_id AND shop_items.item_id = active_titles.item_id").
		Where("active_titles.guild_id = ? AND active_titles.user_id = ?", guildID, userID).
		Scan(&name).Error
	if err != nil {
		return "", false, err
	}
	return name, name != "", nil
}

// ListOwnedTitles returns the member's title-typed items (title_ namespace,
// qty > 0) with their display names.
func (s *TitleService) ListOwnedTitles(guildID, userID int64) ([]models.OwnedItem, error) {
	var rows []models.OwnedItem
	err := s.DB.Model(&models.InventoryEntry{}).
		Select("inventory_entries.item_id, inventory_entries.qty, shop_items.name").
		Joins("JOIN shop_items ON shop_items.guild_id = inventory_entries.guild_id AND shop_items.item_id = inventory_entries.item_id").
		Where("inventory_entries.guild_id = ? AND inventory_entries.user_id = ? AND inventory_entries.qty > 0", guildID, userID).
		// the prefix underscore is escaped: a bare LIKE '_' matches any
		// character, which would let ids like "titleX42" pass as titles
		Where("inventory_entries.item_id LIKE ? ESCAPE '\\'", strings.ReplaceAll(models.TitleItemPrefix, "_", `\_`)+"%").
		Order("shop_items.name ASC").
		Scan(&rows).Error
	return rows, err
}
