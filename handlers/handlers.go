package handlers

import (
	"errors"
	"strconv"

	"guild-ledger/services"

	"github.com/gofiber/fiber/v2"
)

// parseIDs pulls the guild and member snowflake ids out of the path.
func parseIDs(c *fiber.Ctx) (int64, int64, error) {
	guildID, err := strconv.ParseInt(c.Params("guild"), 10, 64)
	if err != nil {
		return 0, 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guild id"})
	}
	userID, err := strconv.ParseInt(c.Params("member"), 10, 64)
	if err != nil {
		return 0, 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	return guildID, userID, nil
}

func parseGuildID(c *fiber.Ctx) (int64, error) {
	guildID, err := strconv.ParseInt(c.Params("guild"), 10, 64)
	if err != nil {
		return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guild id"})
	}
	return guildID, nil
}

// respondServiceError maps the core's recoverable outcomes to HTTP statuses.
// Anything unrecognized is a storage failure and comes back as a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var cooldown *services.CooldownError
	var checkedIn *services.AlreadyCheckedInError

	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrInsufficientFunds):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient funds"})
	case errors.Is(err, services.ErrSelfTransfer), errors.Is(err, services.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &cooldown):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":             "cooldown active",
			"remaining_seconds": cooldown.Remaining,
		})
	case errors.As(err, &checkedIn):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":             "already checked in",
			"remaining_seconds": checkedIn.Remaining,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "storage failure",
			"cause": err.Error(),
		})
	}
}
