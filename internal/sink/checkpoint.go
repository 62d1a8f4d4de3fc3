package sink

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Checkpoint folds the WAL back into the main database file and truncates it.
func (s *Sink) Checkpoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return &StorageError{Op: "checkpoint", Err: err}
	}
	return nil
}

func (s *Sink) scheduleCheckpoints(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := s.Checkpoint(context.Background()); err != nil {
			log.Printf("[sink] scheduled checkpoint failed path=%q: %v", s.path, err)
		}
	}); err != nil {
		return fmt.Errorf("sink: invalid checkpoint schedule %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	return nil
}
