package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"guild-ledger/handlers"
	"guild-ledger/models"
	"guild-ledger/services"
	"guild-ledger/utils"
	"guild-ledger/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
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
		log.Fatal("failed to migrate database:", err)
	}

	clock := services.SystemClock{}
	economyService := services.NewEconomyService(db, clock)
	progressionService := services.NewProgressionService(db, clock)
	checkinService := services.NewCheckinService(db, clock)
	shopService := services.NewShopService(db, clock)
	titleService := services.NewTitleService(db)
	achievementService := services.NewAchievementService(db, clock, progressionService, checkinService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Announcements go to the gateway webhook when configured, otherwise to
	// the process log. Either way delivery is best-effort.
	if webhookURL := os.Getenv("ANNOUNCE_WEBHOOK_URL"); webhookURL != "" {
		announcer := workers.NewWebhookAnnouncer(webhookURL, os.Getenv("SERVICE_TOKEN"))
		achievementService.Announcer = announcer
		go announcer.Start(ctx)
	} else {
		achievementService.Announcer = services.NewLogAnnouncer()
	}

	// Optional catalog seed so fresh deployments have titles to grant.
	seeds, err := utils.LoadCatalogSeed(os.Getenv("CATALOG_SEED_FILE"))
	if err != nil {
		log.Fatal("failed to load catalog seed:", err)
	}
	for _, seed := range seeds {
		if _, err := shopService.UpsertItem(seed.GuildID, seed.ItemID, seed.Name, seed.Price, seed.Description); err != nil {
			log.Fatalf("failed to seed item %s: %v", seed.ItemID, err)
		}
	}
	if len(seeds) > 0 {
		log.Printf("✅ Seeded %d catalog item(s)", len(seeds))
	}

	achievementService.StartDefinitionRefresher()

	app := fiber.New(fiber.Config{})
	handlers.SetupLedgerRoutes(app, economyService, progressionService, checkinService, titleService, achievementService)
	handlers.SetupShopRoutes(app, shopService, titleService, achievementService, os.Getenv("SERVICE_TOKEN"))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5300"
	}

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Guild ledger running on %s", addr)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
