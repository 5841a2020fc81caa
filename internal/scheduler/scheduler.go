// Package scheduler runs the periodic due-review reminder job.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Notifier sends a reminder to a learner.
type Notifier interface {
	SendReminder(learnerID int64, dueCount int) error
}

// DueSource reports how many words are due per learner.
type DueSource interface {
	DueCounts(ctx context.Context, now time.Time) (map[int64]int, error)
}

// Config controls when reminders may be sent (hours in Location time).
type Config struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Scheduler manages scheduled tasks for the application.
type Scheduler struct {
	scheduler *gocron.Scheduler
	due       DueSource
	notifier  Notifier
	cfg       Config
}

// New creates a new scheduler instance.
func New(due DueSource, notifier Notifier, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		due:       due,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Start begins running all scheduled tasks in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every learner with due words, unless the
// current hour falls outside the configured window.
func (s *Scheduler) checkAndSendReminders() {
	now := time.Now().In(s.cfg.Location)
	if now.Hour() < s.cfg.StartHour || now.Hour() > s.cfg.EndHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			now.Hour(), s.cfg.StartHour, s.cfg.EndHour)
		return
	}

	counts, err := s.due.DueCounts(context.Background(), now)
	if err != nil {
		log.Printf("Error counting due words: %v", err)
		return
	}
	for learnerID, count := range counts {
		if err := s.notifier.SendReminder(learnerID, count); err != nil {
			log.Printf("Error sending reminder to learner %d: %v", learnerID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific learner.
func (s *Scheduler) RunManualCheck(ctx context.Context, learnerID int64) error {
	counts, err := s.due.DueCounts(ctx, time.Now().In(s.cfg.Location))
	if err != nil {
		return err
	}
	if count := counts[learnerID]; count > 0 {
		return s.notifier.SendReminder(learnerID, count)
	}
	return nil
}
