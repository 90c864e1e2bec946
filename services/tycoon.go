package services

import (
	"errors"
	"fmt"
	"time"

	"cekkirim-tycoon-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidXPAmount rejects zero/negative grants at the boundary — the
// ledger is append-only and admin corrections go through a separate flow.
var ErrInvalidXPAmount = errors.New("xp amount must be a positive integer")

// XPAward is what handlers use for "level up" feedback.
type XPAward struct {
	XP            int64  `json:"xp"`
	Level         int    `json:"level"`
	WarehouseName string `json:"warehouse_name"`
	Perk          string `json:"perk"`
	LeveledUp     bool   `json:"leveled_up"`
	Duplicate     bool   `json:"duplicate"` // source tag was already credited
}

type TycoonService struct {
	DB *gorm.DB
}

func NewTycoonService(db *gorm.DB) *TycoonService {
	return &TycoonService{DB: db}
}

// GetProfile returns the user's profile, creating it on first read (idempotent)
func (s *TycoonService) GetProfile(externalUserID string) (*models.TycoonProfile, error) {
	return s.getProfile(s.DB, externalUserID)
}

func (s *TycoonService) getProfile(tx *gorm.DB, externalUserID string) (*models.TycoonProfile, error) {
	var prof models.TycoonProfile
	err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if err == gorm.ErrRecordNotFound {
		prof = models.TycoonProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			XP:             0,
			Level:          1,
			WarehouseName:  models.WarehouseLevels[0].Name,
		}
		if err := tx.Create(&prof).Error; err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// AwardXP credits XP, recomputes the ladder rung and appends a ledger row,
// all in one transaction. A source tag that was already credited is a no-op
// (Duplicate=true) so retried claims can never double-credit.
func (s *TycoonService) AwardXP(externalUserID string, amount int64, source string) (*XPAward, error) {
	var award *XPAward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		award, txErr = s.awardXP(tx, externalUserID, amount, source)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// awardXP is the tx-scoped body so ClaimMission can share its transaction.
func (s *TycoonService) awardXP(tx *gorm.DB, externalUserID string, amount int64, source string) (*XPAward, error) {
	if amount < 1 {
		return nil, ErrInvalidXPAmount
	}

	prof, err := s.getProfile(tx, externalUserID)
	if err != nil {
		return nil, err
	}

	// Dedup on source tag before touching the balance
	var existing int64
	if err := tx.Model(&models.XPLedgerEntry{}).
		Where("external_user_id = ? AND source = ?", externalUserID, source).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		cur := models.LevelForXP(prof.XP)
		return &XPAward{
			XP:            prof.XP,
			Level:         prof.Level,
			WarehouseName: prof.WarehouseName,
			Perk:          cur.Perk,
			Duplicate:     true,
		}, nil
	}

	newXP := prof.XP + amount
	def := models.LevelForXP(newXP)

	updates := map[string]interface{}{"xp": newXP}
	leveledUp := def.Level > prof.Level
	if leveledUp {
		// Level only ever moves up; a stale ladder read must never write it backward
		now := time.Now()
		updates["level"] = def.Level
		updates["warehouse_name"] = def.Name
		updates["last_level_up_at"] = &now
	}
	if err := tx.Model(&models.TycoonProfile{}).
		Where("external_user_id = ?", externalUserID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	entry := models.XPLedgerEntry{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Amount:         amount,
		Source:         source,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	badgeSvc := NewBadgeService(tx)
	_ = badgeSvc.AutoAwardBadges(externalUserID) // fire-and-forget

	level := prof.Level
	name := prof.WarehouseName
	if leveledUp {
		level = def.Level
		name = def.Name
	}

	fmt.Printf("🏭 XP Awarded: %s → XP=%d, Lvl=%d (source: %s)\n",
		externalUserID, newXP, level, source)

	return &XPAward{
		XP:            newXP,
		Level:         level,
		WarehouseName: name,
		Perk:          models.LevelForXP(newXP).Perk,
		LeveledUp:     leveledUp,
	}, nil
}

// GetLedger returns the paginated XP audit trail, newest first
func (s *TycoonService) GetLedger(externalUserID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := s.DB.Model(&models.XPLedgerEntry{}).
		Where("external_user_id = ?", externalUserID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.XPLedgerEntry
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return map[string]interface{}{
		"entries":     entries,
		"page":        page,
		"size":        size,
		"total_items": total,
		"total_pages": totalPages,
	}, nil
}

// GetLeaderboard returns the top profiles by XP
func (s *TycoonService) GetLeaderboard(limit int) ([]models.TycoonProfile, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var profiles []models.TycoonProfile
	err := s.DB.Order("xp DESC, updated_at ASC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}
