package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/service"
)

const jobTimeout = 5 * time.Minute

type Jobs interface {
	DispatchDue(ctx context.Context) (service.DispatchResult, error)
	ReplanAll(ctx context.Context) (int, error)
}

// Scheduler runs reminder dispatch and the nightly replan on cron expressions.
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	log  zerolog.Logger
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func NewScheduler(jobs Jobs, cfg config.NotifyConfig, loc *time.Location, log zerolog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	log = log.With().Str("component", "scheduler").Logger()
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		jobs: jobs,
		log:  log,
	}

	if _, err := s.cron.AddFunc(cfg.DispatchCron, s.dispatch); err != nil {
		return nil, fmt.Errorf("dispatch cron %q: %w", cfg.DispatchCron, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReplanCron, s.replan); err != nil {
		return nil, fmt.Errorf("replan cron %q: %w", cfg.ReplanCron, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) dispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.jobs.DispatchDue(ctx); err != nil {
		s.log.Error().Err(err).Msg("dispatch reminders failed")
	}
}

func (s *Scheduler) replan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.jobs.ReplanAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("replan reminders failed")
	}
}

type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
