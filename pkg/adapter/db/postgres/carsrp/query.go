// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gCar struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name            string
	Brand           string
	Model           string
	Year            int
	Category        string
	Seats           int
	Transmission    string
	FuelType        string
	PricePerDay     decimal.Decimal `gorm:"type:numeric(12,2)"`
	Stock           int
	Availability    bool
	Rating          float64
	NumberOfReviews int
	Lat             float64
	Lon             float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) toModel() *model.Car {
	return &model.Car{
		ID:              gc.ID,
		Name:            gc.Name,
		Brand:           gc.Brand,
		Model:           gc.Model,
		Year:            gc.Year,
		Category:        gc.Category,
		Seats:           gc.Seats,
		Transmission:    gc.Transmission,
		FuelType:        gc.FuelType,
		PricePerDay:     gc.PricePerDay,
		Stock:           gc.Stock,
		Availability:    gc.Availability,
		Rating:          gc.Rating,
		NumberOfReviews: gc.NumberOfReviews,
		Location:        model.Coordinate{Lat: gc.Lat, Lon: gc.Lon},
		CreatedAt:       gc.CreatedAt,
		UpdatedAt:       gc.UpdatedAt,
	}
}

func fromModel(c *model.Car) gCar {
	return gCar{
		ID:              c.ID,
		Name:            c.Name,
		Brand:           c.Brand,
		Model:           c.Model,
		Year:            c.Year,
		Category:        c.Category,
		Seats:           c.Seats,
		Transmission:    c.Transmission,
		FuelType:        c.FuelType,
		PricePerDay:     c.PricePerDay,
		Stock:           c.Stock,
		Availability:    c.Availability,
		Rating:          c.Rating,
		NumberOfReviews: c.NumberOfReviews,
		Lat:             c.Location.Lat,
		Lon:             c.Location.Lon,
	}
}

// editableColumns are updated by the Update function. The stock
// counters and ratings have their own dedicated queries.
var editableColumns = []string{
	"name", "brand", "model", "year", "category", "seats",
	"transmission", "fuel_type", "price_per_day", "stock",
	"availability", "lat", "lon", "updated_at",
}

func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, carID uuid.UUID,
) (*model.Car, error) {
	var gc gCar
	err := q.GORM(ctx).Take(&gc, "id = ?", carID).Error
	if err != nil {
		return nil, postgres.Error(err, "car")
	}
	return gc.toModel(), nil
}

// LockByID finds the carID car and locks its row until the end of the
// tx transaction, so concurrent bookings of one car are serialized.
func LockByID(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) (*model.Car, error) {
	var gc gCar
	err := tx.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Take(&gc, "id = ?", carID).Error
	if err != nil {
		return nil, postgres.Error(err, "car")
	}
	return gc.toModel(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, includeUnavailable bool,
) ([]model.Car, error) {
	gdb := q.GORM(ctx).Order("name").Order("id")
	if !includeUnavailable {
		gdb = gdb.Where("availability AND stock > 0")
	}
	var gcs []gCar
	if err := gdb.Find(&gcs).Error; err != nil {
		return nil, postgres.Error(err, "cars")
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		cars = append(cars, *gcs[i].toModel())
	}
	return cars, nil
}

func Create(
	ctx context.Context, tx *postgres.Tx, c *model.Car,
) (*model.Car, error) {
	gc := fromModel(c)
	gc.ID = uuid.New()
	if err := tx.GORM(ctx).Create(&gc).Error; err != nil {
		return nil, postgres.Error(err, "car")
	}
	return gc.toModel(), nil
}

func Update(
	ctx context.Context, tx *postgres.Tx, c *model.Car,
) (*model.Car, error) {
	gc := fromModel(c)
	gc.UpdatedAt = time.Now().UTC()
	return updateReturning(ctx, tx, c.ID, "", gc, editableColumns...)
}

func Delete(ctx context.Context, tx *postgres.Tx, carID uuid.UUID) error {
	// reviews and bookings are removed by ON DELETE CASCADE
	gdb := tx.GORM(ctx).Delete(&gCar{}, "id = ?", carID)
	if err := gdb.Error; err != nil {
		return postgres.Error(err, "car")
	}
	if gdb.RowsAffected == 0 {
		return cerr.NotFound(errors.New("car not found"))
	}
	return nil
}

// DecrementStock takes one unit of the carID car stock using a single
// conditional statement, so stock can not become negative even without
// a prior lock. Availability is cleared when the last unit is taken.
func DecrementStock(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) (*model.Car, error) {
	return updateReturning(ctx, tx, carID, "stock > 0", map[string]any{
		"stock":        gorm.Expr("stock - 1"),
		"availability": gorm.Expr("availability AND stock > 1"),
		"updated_at":   time.Now().UTC(),
	})
}

// IncrementStock gives one unit back to the carID car stock.
// A car which was unavailable because its stock was exhausted becomes
// available again, but an admin disabled car is kept disabled.
func IncrementStock(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) (*model.Car, error) {
	// SET expressions see the old stock value
	return updateReturning(ctx, tx, carID, "", map[string]any{
		"stock":        gorm.Expr("stock + 1"),
		"availability": gorm.Expr("availability OR stock = 0"),
		"updated_at":   time.Now().UTC(),
	})
}

// ToggleAvailability flips the availability flag of the carID car.
// Cars without stock may be disabled, but not enabled.
func ToggleAvailability(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) (*model.Car, error) {
	return updateReturning(
		ctx, tx, carID, "availability OR stock > 0", map[string]any{
			"availability": gorm.Expr("NOT availability"),
			"updated_at":   time.Now().UTC(),
		},
	)
}

func SetRating(
	ctx context.Context,
	tx *postgres.Tx,
	carID uuid.UUID,
	rating float64,
	count int,
) error {
	_, err := updateReturning(ctx, tx, carID, "", map[string]any{
		"rating":            rating,
		"number_of_reviews": count,
		"updated_at":        time.Now().UTC(),
	})
	return err
}

// updateReturning updates the carID row with `values` if that row
// satisfies the `cond` condition too (ignored if empty) and returns
// the updated row. If `columns` are given, only those columns are
// updated (even if they have zero values).
// When no row is updated, a NotFound error is returned for a missing
// car and an out of stock Conflict error otherwise.
func updateReturning(
	ctx context.Context,
	tx *postgres.Tx,
	carID uuid.UUID,
	cond string,
	values any,
	columns ...string,
) (*model.Car, error) {
	var gcs []gCar
	gdb := tx.GORM(ctx).Model(&gcs).Clauses(clause.Returning{}).Where(
		"id = ?", carID,
	)
	if cond != "" {
		gdb = gdb.Where(cond)
	}
	if len(columns) > 0 {
		gdb = gdb.Select(columns)
	}
	if err := gdb.Updates(values).Error; err != nil {
		return nil, postgres.Error(err, "car")
	}
	switch n := len(gcs); n {
	case 1:
		return gcs[0].toModel(), nil
	case 0:
	default:
		return nil, fmt.Errorf("expected one row, but got %d", n)
	}
	if _, err := FindByID(ctx, tx, carID); err != nil {
		return nil, err
	}
	return nil, cerr.Conflict(
		errors.New("car is out of stock"),
	).WithCode(cerr.CodeOutOfStock)
}
