package services

import (
	"fmt"

	"cekkirim-tycoon-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// AutoAwardBadges checks all badge triggers for a user after a progress update
func (s *BadgeService) AutoAwardBadges(externalUserID string) error {
	var prof models.TycoonProfile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
		return err
	}

	for _, trigger := range models.BadgeTriggers {
		if !meetsTrigger(&prof, trigger) {
			continue
		}
		var count int64
		if err := s.DB.Model(&models.UserBadge{}).
			Where("external_user_id = ? AND badge_code = ?", externalUserID, trigger.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		userBadge := models.UserBadge{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			BadgeCode:      trigger.Code,
		}
		if err := s.DB.Create(&userBadge).Error; err != nil {
			return err
		}
		fmt.Printf("🎖️ Badge awarded: %s → %s\n", trigger.Name, externalUserID)
	}
	return nil
}

func meetsTrigger(prof *models.TycoonProfile, t models.BadgeTrigger) bool {
	if t.MinLevel > 0 && prof.Level < t.MinLevel {
		return false
	}
	if t.MinMissionsClaimed > 0 && prof.MissionsClaimed < t.MinMissionsClaimed {
		return false
	}
	return true
}

// SeedBadgeTypes upserts the badge catalog (idempotent by code)
func SeedBadgeTypes(db *gorm.DB) error {
	types := make([]models.BadgeType, len(models.BadgeTriggers))
	for i, t := range models.BadgeTriggers {
		bt := t.BadgeType
		bt.ID = uuid.NewString()
		types[i] = bt
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&types).Error
}

// ListUserBadges joins awarded badges with their catalog entry
func (s *BadgeService) ListUserBadges(externalUserID string) ([]map[string]interface{}, error) {
	var userBadges []models.UserBadge
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("awarded_at ASC").
		Find(&userBadges).Error; err != nil {
		return nil, err
	}

	byCode := map[string]models.BadgeType{}
	for _, t := range models.BadgeTriggers {
		byCode[t.Code] = t.BadgeType
	}

	out := make([]map[string]interface{}, 0, len(userBadges))
	for _, ub := range userBadges {
		bt := byCode[ub.BadgeCode]
		out = append(out, map[string]interface{}{
			"id":          ub.ID,
			"code":        ub.BadgeCode,
			"name":        bt.Name,
			"description": bt.Description,
			"rarity":      bt.Rarity,
			"icon_url":    bt.IconURL,
			"awarded_at":  ub.AwardedAt,
		})
	}
	return out, nil
}
