// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settingsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
)

type gSetting struct {
	Component string `gorm:"primaryKey"`
	Config    []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (gs *gSetting) TableName() string {
	return "settings"
}

// load reads the serialized mutable settings row. The found result
// is false if no settings were stored yet.
func load[Q postgres.Queryer](
	ctx context.Context, q Q,
) (ser cfg1.Serializable, found bool, err error) {
	var gs gSetting
	err = q.GORM(ctx).
		Where("component=?", postgres.SettingsComponent).
		Take(&gs).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ser, false, nil
	case err != nil:
		return ser, false, postgres.Error(err)
	}
	if err = json.Unmarshal(gs.Config, &ser); err != nil {
		return ser, false, fmt.Errorf("deserializing json: %w", err)
	}
	return ser, true, nil
}

// Fetch loads the stored mutable settings and applies them on a clone
// of baseConfs. Stored values which have crossed the current boundary
// values are clamped and reported as a warning, so an old settings row
// cannot prevent the server from starting.
func Fetch[Q postgres.Queryer](
	ctx context.Context, q Q, baseConfs *cfg1.Config,
) (
	*cfg1.Config, *model.VisibleSettings, *model.Settings, *model.Settings,
	error,
) {
	ser, found, err := load(ctx, q)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	confs := baseConfs.Clone()
	if found {
		err = confs.Mutate(ser)
		var oob *cfg1.OutOfBoundsSettingsError
		switch {
		case errors.As(err, &oob):
			log.Warn(
				ctx, "stored settings were clamped",
				log.Err("err", err),
			)
		case err != nil:
			return nil, nil, nil, nil, fmt.Errorf(
				"applying stored settings: %w", err,
			)
		}
	}
	vs, minb, maxb := report(confs)
	return confs, vs, minb, maxb, nil
}

// Update validates s against the boundary values of baseConfs and
// stores it as the mutable settings. Out of bounds settings are
// rejected and the stored row is kept unchanged.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, baseConfs *cfg1.Config, s *model.Settings,
) (
	*cfg1.Config, *model.VisibleSettings, *model.Settings, *model.Settings,
	error,
) {
	ser := cfg1.NewSerializable(s)
	ser.Version = baseConfs.Version()
	confs := baseConfs.Clone()
	if err := confs.Mutate(ser); err != nil {
		return nil, nil, nil, nil, cerr.BadRequest(err)
	}
	b, err := json.Marshal(ser)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("serializing json: %w", err)
	}
	gs := &gSetting{
		Component: postgres.SettingsComponent,
		Config:    b,
		UpdatedAt: time.Now(),
	}
	err = q.GORM(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "component"}},
		DoUpdates: clause.AssignmentColumns([]string{"config", "updated_at"}),
	}).Create(gs).Error
	if err != nil {
		return nil, nil, nil, nil, postgres.Error(err)
	}
	vs, minb, maxb := report(confs)
	return confs, vs, minb, maxb, nil
}

func report(c *cfg1.Config) (
	vs *model.VisibleSettings, minb, maxb *model.Settings,
) {
	mins, maxs := c.Bounds()
	return c.Visible().Model(), mins.Model(), maxs.Model()
}
