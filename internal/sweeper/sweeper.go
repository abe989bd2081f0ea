package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer is the slice of the transfer engine the sweeper drives.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// Sweeper runs the bulk expiry on a fixed schedule, independent of any
// request. It never shares a transaction with request handling; the status
// guard on the bulk update makes it safe to interleave with confirmations.
type Sweeper struct {
	log      *slog.Logger
	engine   Expirer
	cron     *cron.Cron
	interval time.Duration
}

func New(log *slog.Logger, engine Expirer, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:      log,
		engine:   engine,
		cron:     cron.New(),
		interval: interval,
	}
}

func (s *Sweeper) Start() error {
	const op = "sweeper.Start"

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.engine.ExpireOverdue(context.Background()); err != nil {
			s.log.Error("expiry sweep tick failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cron.Start()
	s.log.Info("expiry sweeper started", slog.Duration("interval", s.interval))

	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("expiry sweeper stopped")
}
