package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// AuctionClock is the slice of the auction repository the sweeper needs.
type AuctionClock interface {
	StartDue(ctx context.Context) (int64, error)
	EndDue(ctx context.Context) (int64, error)
}

// AuctionSweeper periodically flips auctions across their time boundaries:
// upcoming to live once start_time passes, live to ended once end_time passes.
type AuctionSweeper struct {
	auctions  AuctionClock
	interval  time.Duration
	log       *slog.Logger
	scheduler gocron.Scheduler
}

func NewAuctionSweeper(auctions AuctionClock, interval time.Duration, log *slog.Logger) *AuctionSweeper {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &AuctionSweeper{auctions: auctions, interval: interval, log: log}
}

func (s *AuctionSweeper) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Sweep(ctx) }),
	)
	if err != nil {
		return err
	}
	sched.Start()
	s.scheduler = sched
	return nil
}

func (s *AuctionSweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Sweep runs one pass. Exported so tests and the start-up path can call it
// without waiting for a tick.
func (s *AuctionSweeper) Sweep(ctx context.Context) {
	started, err := s.auctions.StartDue(ctx)
	if err != nil {
		s.log.Error("auction sweep start pass failed", "error", err)
	} else if started > 0 {
		s.log.Info("auctions moved to live", "count", started)
	}

	ended, err := s.auctions.EndDue(ctx)
	if err != nil {
		s.log.Error("auction sweep end pass failed", "error", err)
	} else if ended > 0 {
		s.log.Info("auctions moved to ended", "count", ended)
	}
}
