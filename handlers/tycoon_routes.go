// handlers/tycoon_routes.go
package handlers

import (
	"strconv"

	"cekkirim-tycoon-service/middleware"
	"cekkirim-tycoon-service/models"
	"cekkirim-tycoon-service/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// idPrinter formats numbers the Indonesian way (1.500, not 1,500) for
// display fields rendered as-is by the mobile app.
var idPrinter = message.NewPrinter(language.Indonesian)

func SetupTycoonRoutes(app *fiber.App, tycoonService *services.TycoonService, badgeService *services.BadgeService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/tycoon", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := tycoonService.GetProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load tycoon profile",
				"cause": err.Error(),
			})
		}

		current := models.LevelForXP(prof.XP)
		response := fiber.Map{
			"id":               prof.ID,
			"xp":               prof.XP,
			"xp_display":       idPrinter.Sprintf("%d XP", prof.XP),
			"level":            prof.Level,
			"warehouse_name":   prof.WarehouseName,
			"perk":             current.Perk,
			"missions_claimed": prof.MissionsClaimed,
			"last_level_up_at": prof.LastLevelUpAt,
		}

		if next := models.NextLevel(prof.Level); next != nil {
			response["next_level"] = fiber.Map{
				"level":          next.Level,
				"warehouse_name": next.Name,
				"perk":           next.Perk,
				"min_xp":         next.MinXP,
				"xp_to_next":     next.MinXP - prof.XP,
			}
		} else {
			response["next_level"] = nil // level cap
		}

		return c.JSON(response)
	})

	securedGroup.Get("/user/tycoon/ledger", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		ledger, err := tycoonService.GetLedger(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get xp ledger",
				"cause": err.Error(),
			})
		}
		return c.JSON(ledger)
	})

	securedGroup.Get("/user/tycoon/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		profiles, err := tycoonService.GetLeaderboard(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get leaderboard",
				"cause": err.Error(),
			})
		}

		entries := make([]fiber.Map, len(profiles))
		for i, p := range profiles {
			entries[i] = fiber.Map{
				"position":       i + 1,
				"user_id":        p.ExternalUserID,
				"xp":             p.XP,
				"xp_display":     idPrinter.Sprintf("%d XP", p.XP),
				"level":          p.Level,
				"warehouse_name": p.WarehouseName,
			}
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	securedGroup.Get("/user/tycoon/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badges, err := badgeService.ListUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"required,max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Reason == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "reason is required (it becomes the ledger source tag)",
			})
		}

		award, err := tycoonService.AwardXP(req.UserID, req.XP, "ADMIN_"+req.Reason)
		if err == services.ErrInvalidXPAmount {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "xp must be a positive integer",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"award":   award,
		})
	})
}
