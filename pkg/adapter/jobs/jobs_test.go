// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlerts struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeAlerts) Evaluate(
	ctx context.Context, listingID *uuid.UUID,
) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 2, nil
}

func (f *fakeAlerts) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePruner struct {
	retention time.Duration
}

func (f *fakePruner) Prune(
	ctx context.Context, retention time.Duration,
) (int64, error) {
	f.retention = retention
	return 0, errors.New("db is down")
}

type record struct {
	job string
	n   int
	err error
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []record
}

func (f *fakeRecorder) RecordJob(job string, n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, record{job, n, err})
}

func validConfig() jobs.Config {
	return jobs.Config{
		AlertsSchedule: "@every 1s",
		PruneSchedule:  "@daily",
		Retention:      720 * time.Hour,
	}
}

func TestRunRecordsOutcome(t *testing.T) {
	a, p, rec := &fakeAlerts{}, &fakePruner{}, &fakeRecorder{}
	s, err := jobs.New(validConfig(), a, p, rec)
	require.NoError(t, err)
	s.RunAlerts()
	s.RunPrune()
	assert.Equal(t, 720*time.Hour, p.retention)
	require.Len(t, rec.runs, 2)
	assert.Equal(t, jobs.AlertsJob, rec.runs[0].job)
	assert.Equal(t, 2, rec.runs[0].n)
	assert.NoError(t, rec.runs[0].err)
	assert.Equal(t, jobs.PruneJob, rec.runs[1].job)
	assert.Error(t, rec.runs[1].err)
}

func TestScheduledRun(t *testing.T) {
	a := &fakeAlerts{}
	s, err := jobs.New(validConfig(), a, &fakePruner{}, nil)
	require.NoError(t, err)
	s.Start()
	assert.Eventually(t, func() bool {
		return a.Calls() > 0
	}, 3*time.Second, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.AlertsSchedule = "every now and then"
	_, err := jobs.New(cfg, &fakeAlerts{}, &fakePruner{}, nil)
	assert.Error(t, err)

	cfg = validConfig()
	cfg.Retention = 0
	_, err = jobs.New(cfg, &fakeAlerts{}, &fakePruner{}, nil)
	assert.Error(t, err)
}
