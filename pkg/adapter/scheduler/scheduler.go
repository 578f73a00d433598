// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler runs the periodic background jobs of crweb,
// currently the completion of expired bookings, using cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/robfig/cron/v3"
)

// Completer completes the bookings which their rental period is over.
// It is implemented by the bookingsuc.UseCase.
type Completer interface {
	CompleteExpired(ctx context.Context) (int64, error)
}

// Scheduler triggers a Completer based on a cron schedule.
// Overlapping runs are skipped.
type Scheduler struct {
	cron      *cron.Cron
	completer Completer
	timeout   time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// New parses the cron schedule (a standard five fields expression
// or a descriptor such as @every 5m) and prepares a Scheduler which
// calls c accordingly. Each run is cancelled after timeout.
func New(schedule string, c Completer, timeout time.Duration) (
	*Scheduler, error,
) {
	logger := cron.PrintfLogger(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(
				cron.Recover(logger),
				cron.SkipIfStillRunning(logger),
			),
		),
		completer: c,
		timeout:   timeout,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		s.cancel()
		return nil, fmt.Errorf("parsing schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		log.Error(ctx, "completing expired bookings", log.Err("err", err))
	}
}

// RunOnce completes the expired bookings immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	return s.completer.CompleteExpired(ctx)
}

// Start begins the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the running one, and waits for it
// to return or ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
