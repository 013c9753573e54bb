package handlers

import (
	"guild-ledger/middleware"
	"guild-ledger/services"

	"github.com/gofiber/fiber/v2"
)

// SetupShopRoutes wires the shop, inventory, title and achievement surfaces.
func SetupShopRoutes(app *fiber.App, shop *services.ShopService, titles *services.TitleService,
	achievements *services.AchievementService, serviceToken string) {

	app.Get("/guilds/:guild/shop", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		items, err := shop.ListCatalog(guildID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(items)
	})

	app.Post("/guilds/:guild/members/:member/purchases", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		var body struct {
			ItemID string `json:"item_id"`
			Qty    int64  `json:"qty"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if body.Qty == 0 {
			body.Qty = 1
		}
		result, err := shop.Purchase(guildID, userID, body.ItemID, body.Qty)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(result)
	})

	app.Get("/guilds/:guild/members/:member/inventory", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		rows, err := shop.ListInventory(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	app.Get("/guilds/:guild/members/:member/titles", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		rows, err := titles.ListOwnedTitles(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		equipped, has, err := titles.EquippedTitleName(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		resp := fiber.Map{"titles": rows}
		if has {
			resp["equipped"] = equipped
		}
		return c.JSON(resp)
	})

	// Equip a title. The ownership check lives here, not in the engine:
	// TitleService.Equip is a bare overwrite by contract.
	app.Put("/guilds/:guild/members/:member/title", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		var body struct {
			ItemID string `json:"item_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ItemID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_id is required"})
		}

		qty, err := shop.OwnedQty(guildID, userID, body.ItemID)
		if err != nil {
			return respondServiceError(c, err)
		}
		if qty <= 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "title not owned"})
		}
		if err := titles.Equip(guildID, userID, body.ItemID); err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"equipped": body.ItemID})
	})

	app.Delete("/guilds/:guild/members/:member/title", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		if err := titles.Unequip(guildID, userID); err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"equipped": nil})
	})

	app.Get("/guilds/:guild/achievements", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		if err := achievements.SeedDefinitions(guildID); err != nil {
			return respondServiceError(c, err)
		}
		defs, err := achievements.ListDefinitions(guildID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(defs)
	})

	app.Get("/guilds/:guild/members/:member/achievements", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		rows, err := achievements.ListMemberUnlocks(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	// Privileged seeding path for the catalog.
	admin := app.Group("/guilds/:guild/shop/items", middleware.ServiceTokenMiddleware(serviceToken))
	admin.Post("/", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		var body struct {
			ItemID      string `json:"item_id"`
			Name        string `json:"name"`
			Price       int64  `json:"price"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		item, err := shop.UpsertItem(guildID, body.ItemID, body.Name, body.Price, body.Description)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})
}
