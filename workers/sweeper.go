package workers

import (
	"time"
	"worknest-backend/models"
	"worknest-backend/utils"

	"gorm.io/gorm"
)

// StartSweepers launches the periodic maintenance loops: expiring
// subscriptions whose end date elapsed and deactivating jobs whose
// application window closed. Both sweeps are idempotent, re-running them
// against already swept rows touches nothing.
func StartSweepers(db *gorm.DB, interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ExpireSubscriptions(db)
				DeactivateExpiredJobs(db)
			case <-stop:
				return
			}
		}
	}()
	return stop
}

// ExpireSubscriptions flips active subscriptions past their end date to
// expired and returns how many rows changed.
func ExpireSubscriptions(db *gorm.DB) int64 {
	res := db.Model(&models.EmployerSubscription{}).
		Where("status = ? AND end_date <= ?", models.SubscriptionActive, time.Now()).
		Update("status", models.SubscriptionExpired)
	if res.Error != nil {
		utils.LogError(res.Error, "Error expiring subscriptions")
		return 0
	}
	if res.RowsAffected > 0 {
		utils.LogInfo("Subscriptions expired by sweep")
	}
	return res.RowsAffected
}

// DeactivateExpiredJobs closes postings whose applyBefore date has passed.
func DeactivateExpiredJobs(db *gorm.DB) int64 {
	today := time.Now().Truncate(24 * time.Hour)
	res := db.Model(&models.Job{}).
		Where("apply_before < ? AND active = ?", today, true).
		Update("active", false)
	if res.Error != nil {
		utils.LogError(res.Error, "Error deactivating expired jobs")
		return 0
	}
	if res.RowsAffected > 0 {
		utils.LogInfo("Expired jobs deactivated by sweep")
	}
	return res.RowsAffected
}
