// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jobs runs the periodic background jobs of cmweb, namely the
// price alerts evaluation and the pruning of old admin notifications.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/robfig/cron/v3"
)

// AlertEvaluator fires the matching price alerts. A nil listingID
// asks for the evaluation of all active alerts.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, listingID *uuid.UUID) (int, error)
}

// NotificationPruner deletes the read notifications which are older
// than the retention period.
type NotificationPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Recorder receives the outcome of each job run. It is satisfied by
// the metrics.Collector type.
type Recorder interface {
	RecordJob(job string, n int, err error)
}

// Job names as reported in logs and metrics.
const (
	AlertsJob = "alerts"
	PruneJob  = "prune_notifications"
)

// Config specifies the schedules of jobs using the cron spec format
// (including the "@every 15m" and "@daily" descriptors).
type Config struct {
	AlertsSchedule string
	PruneSchedule  string
	Retention      time.Duration
	Timeout        time.Duration
}

// Scheduler runs jobs on their schedules.
type Scheduler struct {
	c        *cron.Cron
	alerts   AlertEvaluator
	pruner   NotificationPruner
	rec      Recorder
	cfg      Config
	baseCtx  context.Context
	cancelFn context.CancelFunc
}

// New creates a Scheduler and registers the jobs in it. Jobs do not
// run until Start is called. A nil rec disables the runs recording.
func New(
	cfg Config, alerts AlertEvaluator, pruner NotificationPruner,
	rec Recorder,
) (*Scheduler, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		c: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		alerts:   alerts,
		pruner:   pruner,
		rec:      rec,
		cfg:      cfg,
		baseCtx:  ctx,
		cancelFn: cancel,
	}
	if _, err := s.c.AddFunc(cfg.AlertsSchedule, s.RunAlerts); err != nil {
		cancel()
		return nil, fmt.Errorf(
			"invalid alerts schedule %q: %w", cfg.AlertsSchedule, err,
		)
	}
	if cfg.Retention <= 0 {
		cancel()
		return nil, fmt.Errorf(
			"retention (%v) is not positive", cfg.Retention,
		)
	}
	if _, err := s.c.AddFunc(cfg.PruneSchedule, s.RunPrune); err != nil {
		cancel()
		return nil, fmt.Errorf(
			"invalid prune schedule %q: %w", cfg.PruneSchedule, err,
		)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
	log.Info(
		s.baseCtx, "background jobs are scheduled",
		slog.String("alerts", s.cfg.AlertsSchedule),
		slog.String("prune", s.cfg.PruneSchedule),
	)
}

// Stop cancels the running jobs and waits for them to return or ctx
// to be done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancelFn()
	select {
	case <-s.c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunAlerts evaluates all active price alerts once.
func (s *Scheduler) RunAlerts() {
	s.run(AlertsJob, func(ctx context.Context) (int, error) {
		return s.alerts.Evaluate(ctx, nil)
	})
}

// RunPrune deletes the old read notifications once.
func (s *Scheduler) RunPrune() {
	s.run(PruneJob, func(ctx context.Context) (int, error) {
		n, err := s.pruner.Prune(ctx, s.cfg.Retention)
		return int(n), err
	})
}

func (s *Scheduler) run(
	job string, f func(ctx context.Context) (int, error),
) {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.Timeout)
	defer cancel()
	start := time.Now()
	n, err := f(ctx)
	if s.rec != nil {
		s.rec.RecordJob(job, n, err)
	}
	if err != nil {
		log.Error(
			ctx, "background job failed",
			slog.String("job", job),
			log.Err("err", err),
		)
		return
	}
	log.Info(
		ctx, "background job is done",
		slog.String("job", job),
		slog.Int("items", n),
		slog.Duration("took", time.Since(start)),
	)
}
