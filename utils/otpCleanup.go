package utils

import (
	"log"
	"time"

	"zbank/database"
	"zbank/models"

	"github.com/robfig/cron/v3"
)

// StartOTPCleanup schedules an hourly sweep deleting OTP rows that expired
// more than a day ago. Housekeeping only: verification checks expiry itself,
// so correctness never depends on this job running.
func StartOTPCleanup() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-24 * time.Hour)
		result := database.Database.Db.
			Unscoped().
			Where("expires_at < ?", cutoff).
			Delete(&models.OTP{})
		if result.Error != nil {
			log.Printf("OTP cleanup failed: %v", result.Error)
			return
		}
		if result.RowsAffected > 0 {
			log.Printf("OTP cleanup removed %d stale records", result.RowsAffected)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule OTP cleanup: %v", err)
		return c
	}

	c.Start()
	return c
}
