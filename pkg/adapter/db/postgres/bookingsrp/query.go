// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type gBooking struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	CarID           uuid.UUID `gorm:"type:uuid"`
	UserID          uuid.UUID `gorm:"type:uuid"`
	StartDate       time.Time
	EndDate         time.Time
	Status          model.BookingStatus
	PaymentStatus   model.PaymentStatus
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2)"`
	Services        datatypes.JSONSlice[model.BookedService]
	PickupLocation  datatypes.JSONType[*model.Location]
	DropoffLocation datatypes.JSONType[*model.Location]
	Extras          datatypes.JSONMap
	StockHeld       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (gb *gBooking) TableName() string {
	return "bookings"
}

func (gb *gBooking) Model() *model.Booking {
	b := &model.Booking{
		ID:              gb.ID,
		CarID:           gb.CarID,
		UserID:          gb.UserID,
		StartDate:       gb.StartDate,
		EndDate:         gb.EndDate,
		Status:          gb.Status,
		PaymentStatus:   gb.PaymentStatus,
		TotalAmount:     gb.TotalAmount,
		Services:        []model.BookedService(gb.Services),
		PickupLocation:  gb.PickupLocation.Data(),
		DropoffLocation: gb.DropoffLocation.Data(),
		StockHeld:       gb.StockHeld,
		CreatedAt:       gb.CreatedAt,
		UpdatedAt:       gb.UpdatedAt,
	}
	if len(gb.Extras) > 0 {
		b.Extras = map[string]any(gb.Extras)
	}
	if b.Services == nil {
		b.Services = []model.BookedService{}
	}
	return b
}

func fromModel(b *model.Booking) gBooking {
	extras := datatypes.JSONMap{}
	for k, v := range b.Extras {
		extras[k] = v
	}
	services := b.Services
	if services == nil {
		services = []model.BookedService{}
	}
	return gBooking{
		ID:              b.ID,
		CarID:           b.CarID,
		UserID:          b.UserID,
		StartDate:       b.StartDate.UTC(),
		EndDate:         b.EndDate.UTC(),
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		TotalAmount:     b.TotalAmount,
		Services:        datatypes.NewJSONSlice(services),
		PickupLocation:  datatypes.NewJSONType(b.PickupLocation),
		DropoffLocation: datatypes.NewJSONType(b.DropoffLocation),
		Extras:          extras,
		StockHeld:       b.StockHeld,
	}
}

func models(gbs []gBooking) []model.Booking {
	bookings := make([]model.Booking, 0, len(gbs))
	for i := range gbs {
		bookings = append(bookings, *gbs[i].Model())
	}
	return bookings
}

// blockingStatuses lists the statuses which reserve the car calendar,
// matching the model.BookingStatus.BlocksCalendar method.
var blockingStatuses = []model.BookingStatus{
	model.BookingPending, model.BookingActive,
}

// activeStatuses lists the statuses which are completed by the
// CompleteExpired function.
var activeStatuses = []model.BookingStatus{
	model.BookingActive, model.BookingConfirmed,
}

func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, bookingID uuid.UUID,
) (*model.Booking, error) {
	var gb gBooking
	err := q.GORM(ctx).Take(&gb, "id = ?", bookingID).Error
	if err != nil {
		return nil, postgres.Error(err, "booking")
	}
	return gb.Model(), nil
}

// LockByID finds the bookingID booking and locks its row until the end
// of the tx transaction.
func LockByID(
	ctx context.Context, tx *postgres.Tx, bookingID uuid.UUID,
) (*model.Booking, error) {
	var gb gBooking
	err := tx.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Take(&gb, "id = ?", bookingID).Error
	if err != nil {
		return nil, postgres.Error(err, "booking")
	}
	return gb.Model(), nil
}

// List returns the bookings which match f, newest first.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, f repo.BookingFilter,
) ([]model.Booking, error) {
	gdb := q.GORM(ctx).Order("created_at DESC").Order("id")
	if f.UserID != nil {
		gdb = gdb.Where("user_id = ?", *f.UserID)
	}
	if f.CarID != nil {
		gdb = gdb.Where("car_id = ?", *f.CarID)
	}
	if f.Status != nil {
		gdb = gdb.Where("status = ?", *f.Status)
	}
	var gbs []gBooking
	if err := gdb.Find(&gbs).Error; err != nil {
		return nil, postgres.Error(err, "bookings")
	}
	return models(gbs), nil
}

// HasConflict reports if a pending or active booking of the carID car
// overlaps the r range. Both ends of both ranges are inclusive, so a
// booking which ends on the first day of r conflicts with it.
func HasConflict[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	carID uuid.UUID,
	r model.DateRange,
	exclude *uuid.UUID,
) (bool, error) {
	gdb := q.GORM(ctx).Model(&gBooking{}).Where(
		"car_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		carID, blockingStatuses, r.End.UTC(), r.Start.UTC(),
	)
	if exclude != nil {
		gdb = gdb.Where("id <> ?", *exclude)
	}
	var n int64
	if err := gdb.Limit(1).Count(&n).Error; err != nil {
		return false, postgres.Error(err, "bookings")
	}
	return n > 0, nil
}

func Create(
	ctx context.Context, tx *postgres.Tx, b *model.Booking,
) (*model.Booking, error) {
	gb := fromModel(b)
	gb.ID = uuid.New()
	if err := tx.GORM(ctx).Create(&gb).Error; err != nil {
		return nil, postgres.Error(err, "booking")
	}
	return gb.Model(), nil
}

// UpdateState stores s as the new state of the bookingID booking.
func UpdateState(
	ctx context.Context,
	tx *postgres.Tx,
	bookingID uuid.UUID,
	s model.BookingState,
) (*model.Booking, error) {
	var gbs []gBooking
	err := tx.GORM(ctx).Model(&gbs).Clauses(clause.Returning{}).Where(
		"id = ?", bookingID,
	).Updates(map[string]any{
		"status":         s.Status,
		"payment_status": s.PaymentStatus,
		"stock_held":     s.StockHeld,
		"updated_at":     time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Error(err, "booking")
	}
	if n := len(gbs); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gbs[0].Model(), nil
}

func Delete(
	ctx context.Context, tx *postgres.Tx, bookingID uuid.UUID,
) error {
	gdb := tx.GORM(ctx).Delete(&gBooking{}, "id = ?", bookingID)
	if err := gdb.Error; err != nil {
		return postgres.Error(err, "booking")
	}
	if gdb.RowsAffected == 0 {
		return cerr.NotFound(errors.New("booking not found"))
	}
	return nil
}

// CountHoldingStock returns the number of carID bookings which still
// hold one unit of its stock.
func CountHoldingStock(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) (int, error) {
	var n int64
	err := tx.GORM(ctx).Model(&gBooking{}).Where(
		"car_id = ? AND stock_held", carID,
	).Count(&n).Error
	if err != nil {
		return 0, postgres.Error(err, "bookings")
	}
	return int(n), nil
}

// CompleteExpired locks the active bookings which have ended before
// now and marks them as completed, clearing their stock_held flags.
// The locked rows are returned with their former state.
func CompleteExpired(
	ctx context.Context, tx *postgres.Tx, now time.Time,
) ([]model.Booking, error) {
	var gbs []gBooking
	err := tx.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Where(
		"status IN ? AND end_date < ?", activeStatuses, now.UTC(),
	).Find(&gbs).Error
	if err != nil {
		return nil, postgres.Error(err, "bookings")
	}
	if len(gbs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(gbs))
	for i := range gbs {
		ids = append(ids, gbs[i].ID)
	}
	err = tx.GORM(ctx).Model(&gBooking{}).Where(
		"id IN ?", ids,
	).Updates(map[string]any{
		"status":     model.BookingCompleted,
		"stock_held": false,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Error(err, "bookings")
	}
	return models(gbs), nil
}
