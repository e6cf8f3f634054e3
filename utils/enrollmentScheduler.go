package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeEnrollmentScheduler starts the daily enrollment sweep:
// progress reminders for stalled learners and expiry of limited access.
func InitializeEnrollmentScheduler() {
	log.Println("[ENROLLMENT-SCHEDULER] Initializing enrollment scheduler...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.SchedulerSpec, func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running daily enrollment sweep...")
		SendStalledProgressReminders()
		ExpireLimitedAccess()
	})
	if err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Invalid cron spec %q: %v", config.AppConfig.SchedulerSpec, err)
		return
	}

	c.Start()
	log.Printf("[ENROLLMENT-SCHEDULER] Enrollment scheduler started (%s)", config.AppConfig.SchedulerSpec)
}

// SendStalledProgressReminders emails learners with an unfinished course
// and no activity for a week. One reminder per week per enrollment; the
// course's automation flags can turn reminders off entirely.
func SendStalledProgressReminders() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -7)

	var stalled []courseModels.Enrollment
	if err := db.
		Where("status = ? AND is_deleted = ?", courseModels.EnrollmentInProgress, false).
		Where("updated_at < ?", cutoff).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < ?", cutoff).
		Find(&stalled).Error; err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error fetching stalled enrollments: %v", err)
		return
	}

	log.Printf("[ENROLLMENT-SCHEDULER] Found %d stalled enrollments", len(stalled))

	for _, e := range stalled {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", e.CourseID, false).First(&course).Error; err != nil {
			continue
		}
		if !course.Automation.Data().ProgressReminders {
			continue
		}

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", e.UserID, false).First(&user).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error fetching user %d: %v", e.UserID, err)
			continue
		}

		SendProgressReminder(user.Email, user.Name, course.Title, e.Progress)

		now := time.Now()
		if err := db.Model(&courseModels.Enrollment{}).
			Where("id = ?", e.ID).Update("reminder_sent_at", now).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error marking reminder for enrollment %d: %v", e.ID, err)
		}
	}
}

// ExpireLimitedAccess flips enrollments past their access window to
// EXPIRED and notifies the learner once.
func ExpireLimitedAccess() {
	db := database.Database.Db
	now := time.Now()

	var expired []courseModels.Enrollment
	if err := db.
		Where("status NOT IN ? AND is_deleted = ?", []string{courseModels.EnrollmentExpired, courseModels.EnrollmentCompleted}, false).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Find(&expired).Error; err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error fetching expired enrollments: %v", err)
		return
	}

	log.Printf("[ENROLLMENT-SCHEDULER] Expiring %d enrollments", len(expired))

	for _, e := range expired {
		if err := db.Model(&courseModels.Enrollment{}).
			Where("id = ?", e.ID).Update("status", courseModels.EnrollmentExpired).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error expiring enrollment %d: %v", e.ID, err)
			continue
		}

		var user models.User
		var course courseModels.Course
		if db.Where("id = ?", e.UserID).First(&user).Error == nil &&
			db.Where("id = ?", e.CourseID).First(&course).Error == nil {
			SendAccessExpiryNotice(user.Email, user.Name, course.Title)
		}
	}
}
