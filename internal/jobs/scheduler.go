package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// NotePurger removes soft-deleted notes past retention.
type NotePurger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron      *cron.Cron
	notes     NotePurger
	retention time.Duration
	log       zerolog.Logger
}

func NewScheduler(notes NotePurger, retention time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		notes:     notes,
		retention: retention,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.notes == nil || s.retention <= 0 {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeDeleted); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running purge to finish, up to a short grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) purgeDeleted() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	purged, err := s.notes.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("purge deleted notes failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("purged deleted notes")
	}
}
