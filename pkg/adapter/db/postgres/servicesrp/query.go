// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package servicesrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type gService struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name        string
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
	Type        model.ServiceType
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (gs *gService) TableName() string {
	return "services"
}

func (gs *gService) Model() *model.AdditionalService {
	return &model.AdditionalService{
		ID:          gs.ID,
		Name:        gs.Name,
		Description: gs.Description,
		Price:       gs.Price,
		Type:        gs.Type,
		Active:      gs.Active,
		CreatedAt:   gs.CreatedAt,
		UpdatedAt:   gs.UpdatedAt,
	}
}

func models(gss []gService) []model.AdditionalService {
	list := make([]model.AdditionalService, 0, len(gss))
	for i := range gss {
		list = append(list, *gss[i].Model())
	}
	return list
}

func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, serviceID uuid.UUID,
) (*model.AdditionalService, error) {
	var gs gService
	err := q.GORM(ctx).Take(&gs, "id = ?", serviceID).Error
	if err != nil {
		return nil, postgres.Error(err, "service")
	}
	return gs.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, includeInactive bool,
) ([]model.AdditionalService, error) {
	gdb := q.GORM(ctx).Order("name").Order("id")
	if !includeInactive {
		gdb = gdb.Where("active")
	}
	var gss []gService
	if err := gdb.Find(&gss).Error; err != nil {
		return nil, postgres.Error(err, "services")
	}
	return models(gss), nil
}

// FindActive returns the active services among ids. Unknown and
// inactive ids are skipped, so callers may compare the lengths.
func FindActive[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) ([]model.AdditionalService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var gss []gService
	err := q.GORM(ctx).Where("id IN ? AND active", ids).Find(&gss).Error
	if err != nil {
		return nil, postgres.Error(err, "services")
	}
	return models(gss), nil
}

func Create(
	ctx context.Context, tx *postgres.Tx, s *model.AdditionalService,
) (*model.AdditionalService, error) {
	gs := gService{
		ID:          uuid.New(),
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Type:        s.Type,
		Active:      s.Active,
	}
	if err := tx.GORM(ctx).Create(&gs).Error; err != nil {
		return nil, postgres.Error(err, "service")
	}
	return gs.Model(), nil
}

func Update(
	ctx context.Context, tx *postgres.Tx, s *model.AdditionalService,
) (*model.AdditionalService, error) {
	var gss []gService
	err := tx.GORM(ctx).Model(&gss).Clauses(clause.Returning{}).Where(
		"id = ?", s.ID,
	).Updates(map[string]any{
		"name":        s.Name,
		"description": s.Description,
		"price":       s.Price,
		"type":        s.Type,
		"active":      s.Active,
		"updated_at":  time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Error(err, "service")
	}
	if n := len(gss); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gss[0].Model(), nil
}

// Deactivate hides the serviceID service from new bookings.
func Deactivate(
	ctx context.Context, tx *postgres.Tx, serviceID uuid.UUID,
) error {
	gdb := tx.GORM(ctx).Model(&gService{}).Where(
		"id = ?", serviceID,
	).Updates(map[string]any{
		"active":     false,
		"updated_at": time.Now().UTC(),
	})
	if err := gdb.Error; err != nil {
		return postgres.Error(err, "service")
	}
	if gdb.RowsAffected == 0 {
		return cerr.NotFound(errors.New("service not found"))
	}
	return nil
}
