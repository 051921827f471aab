package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// PurgeSpec runs the revocation purge once an hour.
const PurgeSpec = "@every 1h"

// Purger deletes records that are no longer needed and reports how many.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
		timeout: time.Minute,
	}
}

// AddPurge registers p to run on spec. name is used in logs.
func (s *Scheduler) AddPurge(spec, name string, p Purger) error {
	_, err := s.cron.AddFunc(spec, func() { s.runPurge(name, p) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting background scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Background scheduler stopped")
}

func (s *Scheduler) runPurge(name string, p Purger) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := p.Purge(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", name).Msg("Scheduled purge failed")
		return
	}
	log.Debug().Str("job", name).Int64("deleted", n).Msg("Scheduled purge finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
