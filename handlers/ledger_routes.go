package handlers

import (
	"strconv"

	"guild-ledger/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLedgerRoutes wires the economy, progression and check-in operations.
// These handlers hold no business rules beyond the documented precondition
// checks; everything consequential happens in the services.
func SetupLedgerRoutes(app *fiber.App, economy *services.EconomyService, progression *services.ProgressionService,
	checkins *services.CheckinService, titles *services.TitleService, achievements *services.AchievementService) {

	// Activity event: a qualifying message was posted. Counts the message,
	// awards XP (each under its own cooldown) and re-evaluates achievements
	// quietly — announcing on every message would flood the channel.
	app.Post("/guilds/:guild/members/:member/events/message", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}

		counted, err := progression.BumpActivity(guildID, userID, services.DefaultActivityCooldown)
		if err != nil {
			return respondServiceError(c, err)
		}
		xp, err := progression.AwardXP(guildID, userID, services.DefaultXPPerMessage, services.DefaultXPCooldown)
		if err != nil {
			return respondServiceError(c, err)
		}
		unlocked, err := achievements.EvaluateAndUnlock(guildID, userID, false)
		if err != nil {
			return respondServiceError(c, err)
		}

		return c.JSON(fiber.Map{
			"counted":      counted,
			"xp":           xp,
			"unlocked_any": unlocked,
		})
	})

	// Daily check-in. Announcements are on here: one command, one response.
	app.Post("/guilds/:guild/members/:member/checkin", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		result, err := checkins.Checkin(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		unlocked, err := achievements.EvaluateAndUnlock(guildID, userID, true)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"reward":       result.Reward,
			"streak":       result.Streak,
			"balance":      result.Balance,
			"unlocked_any": unlocked,
		})
	})

	app.Get("/guilds/:guild/members/:member/balance", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		coins, err := economy.GetCoins(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"coins": coins, "coins_display": services.FormatCoins(coins)})
	})

	app.Get("/guilds/:guild/members/:member/level", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		prog, err := progression.GetProgression(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"xp": prog.XP, "level": prog.Level, "last_xp_ts": prog.LastXPTs})
	})

	// Transfer coins to another member. Self-transfers and non-positive
	// amounts never reach the engine; the cooldown is checked first so the
	// caller gets the remaining seconds instead of a failed transfer.
	app.Post("/guilds/:guild/members/:member/transfer", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		var body struct {
			ToUserID int64 `json:"to_user_id"`
			Amount   int64 `json:"amount"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if body.Amount <= 0 {
			return respondServiceError(c, services.ErrInvalidAmount)
		}
		if body.ToUserID == userID {
			return respondServiceError(c, services.ErrSelfTransfer)
		}

		allowed, remain, err := economy.CanTransfer(guildID, userID, services.DefaultTransferCooldown)
		if err != nil {
			return respondServiceError(c, err)
		}
		if !allowed {
			return respondServiceError(c, &services.CooldownError{Remaining: remain})
		}

		result, err := economy.Transfer(guildID, userID, body.ToUserID, body.Amount, services.DefaultFeeRate)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(result)
	})

	app.Get("/guilds/:guild/members/:member/transfers", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		rows, err := economy.RecentTransfers(guildID, userID, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	// Profile: the aggregated member view (level, coins, messages, title).
	app.Get("/guilds/:guild/members/:member/profile", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		prog, err := progression.GetProgression(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		coins, err := economy.GetCoins(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		messages, err := progression.GetMessageCount(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		rank, _, total, ranked, err := progression.MessageRank(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		titleName, hasTitle, err := titles.EquippedTitleName(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}

		resp := fiber.Map{
			"level":         prog.Level,
			"xp":            prog.XP,
			"coins":         coins,
			"coins_display": services.FormatCoins(coins),
			"messages":      messages,
		}
		if ranked {
			resp["message_rank"] = rank
			resp["message_rank_total"] = total
		}
		if hasTitle {
			resp["title"] = titleName
		}
		return c.JSON(resp)
	})

	// Leaderboards.
	app.Get("/guilds/:guild/top/coins", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		rows, err := economy.TopCoins(guildID, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	app.Get("/guilds/:guild/top/levels", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		rows, err := progression.TopLevels(guildID, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	app.Get("/guilds/:guild/top/messages", func(c *fiber.Ctx) error {
		guildID, err := parseGuildID(c)
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		rows, err := progression.TopMessages(guildID, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(rows)
	})

	app.Get("/guilds/:guild/members/:member/rank", func(c *fiber.Ctx) error {
		guildID, userID, err := parseIDs(c)
		if err != nil {
			return err
		}
		rank, count, total, ok, err := progression.MessageRank(guildID, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no messages counted yet"})
		}
		return c.JSON(fiber.Map{"rank": rank, "count": count, "total": total})
	})
}
