// services/scheduler.go
package services

import (
	"log"
	"time"

	"cekkirim-tycoon-service/models"

	"github.com/go-co-op/gocron/v2"
)

// StartTemplateScheduler opens and closes seasonal template availability
// windows. Runs every minute, like the publish scheduler it replaced.
func (s *MissionService) StartTemplateScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			// Open windows that have started
			var toOpen []models.MissionTemplate
			err := s.DB.Where("is_active = ? AND starts_at IS NOT NULL AND starts_at <= ?", false, now).
				Where("(ends_at IS NULL OR ends_at > ?)", now).
				Find(&toOpen).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, t := range toOpen {
				if err := s.DB.Model(&models.MissionTemplate{}).
					Where("id = ?", t.ID).
					Update("is_active", true).Error; err != nil {
					log.Printf("[Scheduler] Failed to activate template %s: %v", t.Code, err)
				} else {
					log.Printf("✅ Seasonal mission opened: %s", t.Code)
				}
			}

			// Close windows that have ended
			var toClose []models.MissionTemplate
			err = s.DB.Where("is_active = ? AND ends_at IS NOT NULL AND ends_at <= ?", true, now).
				Find(&toClose).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, t := range toClose {
				if err := s.DB.Model(&models.MissionTemplate{}).
					Where("id = ?", t.ID).
					Update("is_active", false).Error; err != nil {
					log.Printf("[Scheduler] Failed to deactivate template %s: %v", t.Code, err)
				} else {
					log.Printf("✅ Seasonal mission closed: %s", t.Code)
				}
			}
		}),
	)
}
