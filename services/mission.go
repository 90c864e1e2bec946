package services

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"cekkirim-tycoon-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Business rejections for claim attempts. Handlers map these to distinct
// HTTP statuses so the missions tab can explain the disabled button.
var (
	ErrMissionNotFound       = errors.New("mission not found")
	ErrMissionAlreadyClaimed = errors.New("mission already claimed")
	ErrMissionNotCompleted   = errors.New("mission not completed yet")
)

// DateLayout is the calendar-day key for daily batches
const DateLayout = "2006-01-02"

// DateKey formats a point in time as the batch date key
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Daily draw quota per difficulty bucket
var dailyQuota = []struct {
	difficulty models.MissionDifficulty
	count      int
}{
	{models.DifficultyEasy, 1},
	{models.DifficultyMedium, 2},
	{models.DifficultyHard, 1},
}

type MissionService struct {
	DB     *gorm.DB
	Tycoon *TycoonService
}

func NewMissionService(db *gorm.DB, tycoon *TycoonService) *MissionService {
	return &MissionService{DB: db, Tycoon: tycoon}
}

// GetDailyMissions returns the user's batch for the given day, generating it
// on the first read of the day. The day is passed in by the caller so tests
// (and backfills) control the clock.
func (s *MissionService) GetDailyMissions(externalUserID string, day time.Time) ([]models.MissionView, error) {
	date := DateKey(day)

	missions, err := s.listForDate(externalUserID, date)
	if err != nil {
		return nil, err
	}
	if len(missions) == 0 {
		if err := s.generateMissions(externalUserID, date, day); err != nil {
			return nil, err
		}
		// Re-read instead of trusting our own insert: a concurrent first
		// request may have won the ON CONFLICT race with a different draw.
		missions, err = s.listForDate(externalUserID, date)
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.MissionView, len(missions))
	for i, m := range missions {
		views[i] = models.MissionView{
			ID:          m.ID,
			ConfigID:    m.TemplateID,
			Title:       m.Template.Title,
			Description: m.Template.Description,
			Progress:    m.Progress,
			TargetCount: m.Template.TargetCount,
			IsClaimed:   m.IsClaimed,
			XPReward:    m.Template.XPReward,
			Status:      m.Status(),
		}
	}
	return views, nil
}

func (s *MissionService) listForDate(externalUserID, date string) ([]models.DailyMission, error) {
	var missions []models.DailyMission
	err := s.DB.Preload("Template").
		Where("user_id = ? AND date = ?", externalUserID, date).
		Order("created_at ASC").
		Find(&missions).Error
	return missions, err
}

// generateMissions draws 1 EASY + 2 MEDIUM + 1 HARD from the active catalog
// and inserts the batch. The composite unique index on
// (user_id, template_id, date) plus DO NOTHING makes concurrent first reads
// converge on a single batch.
func (s *MissionService) generateMissions(externalUserID, date string, day time.Time) error {
	var templates []models.MissionTemplate
	err := s.DB.Where("is_active = ?", true).
		Where("(starts_at IS NULL OR starts_at <= ?)", day).
		Where("(ends_at IS NULL OR ends_at > ?)", day).
		Find(&templates).Error
	if err != nil {
		return err
	}

	buckets := map[models.MissionDifficulty][]models.MissionTemplate{}
	for _, t := range templates {
		buckets[t.Difficulty] = append(buckets[t.Difficulty], t)
	}

	var batch []models.DailyMission
	for _, q := range dailyQuota {
		picked := sampleTemplates(buckets[q.difficulty], q.count)
		if len(picked) < q.count {
			log.Printf("⚠️ [MISSIONS] catalog short on %s templates: wanted %d, have %d",
				q.difficulty, q.count, len(picked))
		}
		for _, t := range picked {
			batch = append(batch, models.DailyMission{
				ID:         uuid.NewString(),
				UserID:     externalUserID,
				TemplateID: t.ID,
				Date:       date,
				Progress:   0,
				IsClaimed:  false,
			})
		}
	}
	if len(batch) == 0 {
		log.Printf("⚠️ [MISSIONS] no active templates — empty batch for %s on %s", externalUserID, date)
		return nil
	}

	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "template_id"}, {Name: "date"},
		},
		DoNothing: true,
	}).Create(&batch).Error
}

// sampleTemplates picks up to n templates uniformly without replacement
func sampleTemplates(candidates []models.MissionTemplate, n int) []models.MissionTemplate {
	shuffled := make([]models.MissionTemplate, len(candidates))
	copy(shuffled, candidates)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// TrackMissionEvent advances every unclaimed mission of the day whose
// template task type matches the event. Progress is clamped to the target;
// a mission already at cap is skipped without a write.
func (s *MissionService) TrackMissionEvent(externalUserID, eventType string, increment int, day time.Time) error {
	if increment < 1 {
		increment = 1
	}
	date := DateKey(day)

	var missions []models.DailyMission
	err := s.DB.Preload("Template").
		Where("user_id = ? AND date = ? AND is_claimed = ?", externalUserID, date, false).
		Find(&missions).Error
	if err != nil {
		return err
	}

	for _, m := range missions {
		if m.Template.TaskType != eventType {
			continue
		}
		newProgress := m.Progress + increment
		if newProgress > m.Template.TargetCount {
			newProgress = m.Template.TargetCount
		}
		if newProgress == m.Progress {
			continue
		}
		if err := s.DB.Model(&models.DailyMission{}).
			Where("id = ?", m.ID).
			Update("progress", newProgress).Error; err != nil {
			return err
		}
	}
	return nil
}

// ClaimMission flips the one-way claimed flag and credits the template's XP
// reward in a single transaction, so a crash can never leave a claimed
// mission uncredited. The lookup is scoped to the caller and to today's
// date: past batches are abandoned, not claimable.
func (s *MissionService) ClaimMission(missionID, externalUserID string, day time.Time) (*XPAward, error) {
	date := DateKey(day)

	var award *XPAward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var m models.DailyMission
		err := tx.Preload("Template").
			Where("id = ? AND user_id = ? AND date = ?", missionID, externalUserID, date).
			First(&m).Error
		if err == gorm.ErrRecordNotFound {
			return ErrMissionNotFound
		}
		if err != nil {
			return err
		}
		if m.IsClaimed {
			return ErrMissionAlreadyClaimed
		}
		if m.Progress < m.Template.TargetCount {
			return ErrMissionNotCompleted
		}

		now := time.Now()
		if err := tx.Model(&models.DailyMission{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"is_claimed": true,
				"claimed_at": &now,
			}).Error; err != nil {
			return err
		}

		// Ensure the profile exists before bumping its claim counter, so
		// the badge pass inside awardXP sees the fresh count.
		if _, err := s.Tycoon.getProfile(tx, externalUserID); err != nil {
			return err
		}
		if err := tx.Model(&models.TycoonProfile{}).
			Where("external_user_id = ?", externalUserID).
			UpdateColumn("missions_claimed", gorm.Expr("missions_claimed + 1")).Error; err != nil {
			return err
		}

		var txErr error
		award, txErr = s.Tycoon.awardXP(tx, externalUserID, m.Template.XPReward, "MISSION_"+m.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

// SeedMissionTemplates upserts the built-in catalog (idempotent by code)
func SeedMissionTemplates(db *gorm.DB) error {
	templates := make([]models.MissionTemplate, len(models.DefaultMissionTemplates))
	copy(templates, models.DefaultMissionTemplates)
	for i := range templates {
		templates[i].ID = uuid.NewString()
		templates[i].IsActive = true
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&templates).Error
}
