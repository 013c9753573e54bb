package services

import (
	"fmt"
	"strings"
	"testing"

	"guild-ledger/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test and migrates the
// full schema. The shared-cache DSN keeps the database alive across pooled
// connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Wallet{},
		&models.Transfer{},
		&models.Progression{},
		&models.ActivityCounter{},
		&models.CheckinRecord{},
		&models.ShopItem{},
		&models.InventoryEntry{},
		&models.ActiveTitle{},
		&models.AchievementDef{},
		&models.AchievementUnlock{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	ts int64
}

func (c *fakeClock) Now() int64 { return c.ts }

func (c *fakeClock) advance(seconds int64) { c.ts += seconds }

func newFakeClock() *fakeClock {
	return &fakeClock{ts: 1_700_000_000}
}

// seedItem puts one catalog entry in place for shop/title tests.
func seedItem(t *testing.T, shop *ShopService, guildID int64, itemID, name string, price int64) {
	t.Helper()
	if _, err := shop.UpsertItem(guildID, itemID, name, price, ""); err != nil {
		t.Fatalf("seed item %s: %v", itemID, err)
	}
}
