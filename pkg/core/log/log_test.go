// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: level,
	})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func TestContextAttrsAreLogged(t *testing.T) {
	buf := capture(t, slog.LevelInfo)
	user := uuid.New()
	ctx := log.With(context.Background(), log.ID("user", user))
	ctx = log.With(ctx, slog.String("role", "dealer"))
	log.Warn(ctx, "quota reached", log.Err("err", errors.New("full")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "quota reached", rec["msg"])
	assert.Equal(t, user.String(), rec["user"])
	assert.Equal(t, "dealer", rec["role"])
	assert.Equal(t, "full", rec["err"])
}

func TestDisabledLevelsAreSkipped(t *testing.T) {
	buf := capture(t, slog.LevelInfo)
	log.Debug(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
	log.Info(context.Background(), "shown", log.Err("err", nil))
	assert.Contains(t, buf.String(), `"err":"no-error"`)
}
