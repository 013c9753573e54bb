package services

import (
	"fmt"
	"log"
	"math"

	"guild-ledger/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShopService owns the per-guild catalog and member inventories.
type ShopService struct {
	DB    *gorm.DB
	Clock Clock
}

func NewShopService(db *gorm.DB, clock Clock) *ShopService {
	return &ShopService{DB: db, Clock: clock}
}

// ListCatalog returns the guild's shop sorted by ascending price.
func (s *ShopService) ListCatalog(guildID int64) ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := s.DB.Where("guild_id = ?", guildID).
		Order("price ASC, item_id ASC").
		Find(&items).Error
	return items, err
}

// GetItem looks one catalog entry up. ErrNotFound if the guild doesn't sell it.
func (s *ShopService) GetItem(guildID int64, itemID string) (*models.ShopItem, error) {
	var item models.ShopItem
	err := s.DB.Where("guild_id = ? AND item_id = ?", guildID, itemID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PurchaseResult reports a completed purchase.
type PurchaseResult struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Qty      int64  `json:"qty"`
	Total    int64  `json:"total"`
}

// Purchase debits price*qty from the wallet and adds the items to the
// member's inventory — both effects or neither. Fails with ErrNotFound for an
// unknown item and ErrInsufficientFunds without touching any row.
func (s *ShopService) Purchase(guildID, userID int64, itemID string, qty int64) (*PurchaseResult, error) {
	if qty <= 0 {
		return nil, ErrInvalidAmount
	}

	var out PurchaseResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.ShopItem
		err := tx.Where("guild_id = ? AND item_id = ?", guildID, itemID).First(&item).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// price*qty must not wrap: a wrapped negative total would turn the
		// debit below into a credit.
		if item.Price > 0 && qty > math.MaxInt64/item.Price {
			return ErrInvalidAmount
		}
		total := item.Price * qty
		if _, err := adjustCoinsTx(tx, guildID, userID, -total); err != nil {
			return err
		}
		if err := grantItemTx(tx, guildID, userID, itemID, qty); err != nil {
			return err
		}
		out = PurchaseResult{ItemID: itemID, ItemName: item.Name, Qty: qty, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛒 Purchase: guild=%d user=%d item=%s qty=%d total=%d", guildID, userID, itemID, out.Qty, out.Total)
	return &out, nil
}

// Grant adds items to a member's inventory without charging them. Reward
// path used by the achievement engine and admin tooling.
func (s *ShopService) Grant(guildID, userID int64, itemID string, qty int64) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return grantItemTx(tx, guildID, userID, itemID, qty)
	})
}

// grantItemTx bumps the inventory quantity, creating the row on first grant.
func grantItemTx(tx *gorm.DB, guildID, userID int64, itemID string, qty int64) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.InventoryEntry{GuildID: guildID, UserID: userID, ItemID: itemID}).Error; err != nil {
		return err
	}
	return tx.Model(&models.InventoryEntry{}).
		Where("guild_id = ? AND user_id = ? AND item_id = ?", guildID, userID, itemID).
		Update("qty", gorm.Expr("qty + ?", qty)).Error
}

// ListInventory returns the member's owned items (qty > 0) with catalog names.
func (s *ShopService) ListInventory(guildID, userID int64) ([]models.OwnedItem, error) {
	var rows []models.OwnedItem
	err := s.DB.Model(&models.InventoryEntry{}).
		Select("inventory_entries.item_id, inventory_entries.qty, shop_items.name").
		Joins("JOIN shop_items ON shop_items.guild_id = inventory_entries.guild_id AND shop_items.item_id = inventory_entries.item_id").
		Where("inventory_entries.guild_id = ? AND inventory_entries.user_id = ? AND inventory_entries.qty > 0", guildID, userID).
		Order("shop_items.name ASC").
		Scan(&rows).Error
	return rows, err
}

// OwnedQty returns how many of one item the member holds.
func (s *ShopService) OwnedQty(guildID, userID int64, itemID string) (int64, error) {
	var entry models.InventoryEntry
	err := s.DB.Where("guild_id = ? AND user_id = ? AND item_id = ?", guildID, userID, itemID).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Qty, nil
}

// UpsertItem creates or refreshes a catalog entry (privileged seeding path).
// An empty itemID is derived from the name, e.g. "Golden Frame" → "golden-frame".
func (s *ShopService) UpsertItem(guildID int64, itemID, name string, price int64, description string) (*models.ShopItem, error) {
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if price < 0 {
		return nil, ErrInvalidAmount
	}
	if itemID == "" {
		itemID = slug.Make(name)
	}

	item := models.ShopItem{
		GuildID:     guildID,
		ItemID:      itemID,
		Name:        name,
		Price:       price,
		Description: description,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "description"}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
