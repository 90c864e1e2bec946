// handlers/mission_routes.go
package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"cekkirim-tycoon-service/middleware"
	"cekkirim-tycoon-service/models"
	"cekkirim-tycoon-service/services"
	"cekkirim-tycoon-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/missions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		missions, err := missionService.GetDailyMissions(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load daily missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"date":     services.DateKey(time.Now()),
			"missions": missions,
		})
	})

	securedGroup.Post("/user/missions/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		missionID := c.Params("id")

		award, err := missionService.ClaimMission(missionID, userID, time.Now())
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "mission not found for today",
			})
		case errors.Is(err, services.ErrMissionAlreadyClaimed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "mission already claimed",
			})
		case errors.Is(err, services.ErrMissionNotCompleted):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "mission not completed yet",
			})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "claim failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "mission claimed",
			"award":   award,
		})
	})

	// Service-to-service event ingest. Only the gateway token guards this
	// path — core services report business events here (shipment booked,
	// wallet top-up, ...) and never wait on the outcome.
	app.Post("/internal/events", func(c *fiber.Ctx) error {
		type Req struct {
			UserID    string `json:"user_id" validate:"required"`
			EventType string `json:"event_type" validate:"required"`
			Increment int    `json:"increment"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.EventType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and event_type are required",
			})
		}

		if err := missionService.TrackMissionEvent(req.UserID, req.EventType, req.Increment, time.Now()); err != nil {
			// Fire-and-forget semantics: log, still answer 202 so emitters
			// never retry-loop over a gamification hiccup.
			log.Printf("⚠️ [EVENTS] tracking failed for %s/%s: %v", req.UserID, req.EventType, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	// Admin template catalog management
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/missions/templates", func(c *fiber.Ctx) error {
		var templates []models.MissionTemplate
		if err := missionService.DB.Order("difficulty ASC, code ASC").Find(&templates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list templates",
				"cause": err.Error(),
			})
		}
		return c.JSON(templates)
	})

	adminGroup.Post("/missions/templates", func(c *fiber.Ctx) error {
		var req struct {
			Code        string                   `json:"code" validate:"required"`
			Title       string                   `json:"title" validate:"required"`
			Description string                   `json:"description"`
			TaskType    string                   `json:"task_type" validate:"required"`
			TargetCount int                      `json:"target_count" validate:"required,min=1"`
			XPReward    int64                    `json:"xp_reward" validate:"required,min=1"`
			Difficulty  models.MissionDifficulty `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
			StartsAt    *time.Time               `json:"starts_at"`
			EndsAt      *time.Time               `json:"ends_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Code == "" || req.Title == "" || req.TaskType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code, title and task_type are required"})
		}
		if req.TargetCount < 1 || req.XPReward < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_count and xp_reward must be positive"})
		}
		switch req.Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be EASY, MEDIUM or HARD"})
		}

		template := models.MissionTemplate{
			ID:          uuid.NewString(),
			Code:        req.Code,
			Title:       req.Title,
			Description: req.Description,
			TaskType:    req.TaskType,
			TargetCount: req.TargetCount,
			XPReward:    req.XPReward,
			Difficulty:  req.Difficulty,
			// Windowed templates start closed; the scheduler opens them
			IsActive: req.StartsAt == nil,
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
		}
		if err := missionService.DB.Create(&template).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create template",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(template)
	})

	adminGroup.Patch("/missions/templates/:id", func(c *fiber.Ctx) error {
		templateID := c.Params("id")

		var req struct {
			Title       *string    `json:"title"`
			Description *string    `json:"description"`
			TargetCount *int       `json:"target_count"`
			XPReward    *int64     `json:"xp_reward"`
			IsActive    *bool      `json:"is_active"`
			StartsAt    *time.Time `json:"starts_at"`
			EndsAt      *time.Time `json:"ends_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.TargetCount != nil {
			if *req.TargetCount < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_count must be positive"})
			}
			updates["target_count"] = *req.TargetCount
		}
		if req.XPReward != nil {
			if *req.XPReward < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp_reward must be positive"})
			}
			updates["xp_reward"] = *req.XPReward
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.StartsAt != nil {
			updates["starts_at"] = req.StartsAt
		}
		if req.EndsAt != nil {
			updates["ends_at"] = req.EndsAt
		}
		if len(updates) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no fields to update"})
		}

		result := missionService.DB.Model(&models.MissionTemplate{}).
			Where("id = ?", templateID).
			Updates(updates)
		if result.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update template",
				"cause": result.Error.Error(),
			})
		}
		if result.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "template not found"})
		}

		var template models.MissionTemplate
		if err := missionService.DB.First(&template, "id = ?", templateID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to reload template",
				"cause": err.Error(),
			})
		}
		return c.JSON(template)
	})

	adminGroup.Post("/missions/templates/:id/icon", func(c *fiber.Ctx) error {
		templateID := c.Params("id")

		var template models.MissionTemplate
		if err := missionService.DB.First(&template, "id = ?", templateID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "template not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load template",
				"cause": err.Error(),
			})
		}

		fileHeader, err := c.FormFile("icon")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
		}

		key := fmt.Sprintf("mission-icons/%s-%s", slug.Make(template.Code), uuid.NewString()[:8])
		iconURL, err := utils.UploadFileToR2(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "icon upload failed",
				"cause": err.Error(),
			})
		}

		if err := missionService.DB.Model(&models.MissionTemplate{}).
			Where("id = ?", templateID).
			Update("icon_url", iconURL).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save icon url",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"icon_url": iconURL})
	})
}
