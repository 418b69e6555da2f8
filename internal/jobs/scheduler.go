package jobs

import (
	"log"

	"github.com/harukimoto/knowledge-base-api/internal/services"
	"github.com/robfig/cron/v3"
)

// sweepSpec runs the expired-session sweep every 5 minutes. Session reads
// already fail closed on expiry; the sweep only bounds storage growth.
const sweepSpec = "0 */5 * * * *"

// Scheduler owns the periodic maintenance jobs. It is started once after
// wiring and stopped on shutdown.
type Scheduler struct {
	cron     *cron.Cron
	sessions *services.SessionManager
}

// NewScheduler creates a new Scheduler.
func NewScheduler(sessions *services.SessionManager) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(sweepSpec, s.sweepSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweepSessions() {
	removed, err := s.sessions.CleanupExpired()
	if err != nil {
		log.Printf("Session sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Session sweep removed %d expired sessions", removed)
	}
}
