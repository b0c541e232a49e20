package phoneauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep every fifteen minutes.
const DefaultSweepSchedule = "*/15 * * * *"

type codeSweeper interface {
	DeleteExpiredOrUsed(ctx context.Context, phone string, now time.Time) (int64, error)
}

// Sweeper periodically removes used and expired codes for every phone.
type Sweeper struct {
	codes   codeSweeper
	now     func() time.Time
	timeout time.Duration
	cron    *cron.Cron
}

func NewSweeper(codes CodeStore) *Sweeper {
	return &Sweeper{codes: codes, now: time.Now, timeout: time.Minute}
}

// RunOnce performs a single sweep and returns the number of removed codes.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.codes.DeleteExpiredOrUsed(ctx, "", s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep phone codes: %w", err)
	}
	return n, nil
}

// Start schedules RunOnce on a standard 5-field cron expression. An empty
// schedule uses DefaultSweepSchedule.
func (s *Sweeper) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	s.cron = cron.New(cron.WithParser(parser))
	s.cron.Schedule(sched, cron.FuncJob(s.tick))
	s.cron.Start()
	slog.Info("phone code sweeper started", "schedule", schedule)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := s.RunOnce(ctx)
	if err != nil {
		slog.Error("phone code sweep failed", "err", err)
		return
	}
	slog.Info("phone code sweep finished", "deleted", n)
}
