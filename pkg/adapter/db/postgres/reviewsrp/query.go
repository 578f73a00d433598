// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reviewsrp

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
	"gorm.io/gorm/clause"
)

type gReview struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CarID     uuid.UUID `gorm:"type:uuid"`
	UserID    uuid.UUID `gorm:"type:uuid"`
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (gr *gReview) TableName() string {
	return "reviews"
}

func (gr *gReview) Model() *model.Review {
	return &model.Review{
		ID:        gr.ID,
		CarID:     gr.CarID,
		UserID:    gr.UserID,
		Rating:    gr.Rating,
		Comment:   gr.Comment,
		CreatedAt: gr.CreatedAt,
		UpdatedAt: gr.UpdatedAt,
	}
}

func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, reviewID uuid.UUID,
) (*model.Review, error) {
	var gr gReview
	err := q.GORM(ctx).Take(&gr, "id = ?", reviewID).Error
	if err != nil {
		return nil, postgres.Error(err, "review")
	}
	return gr.Model(), nil
}

// List returns the reviews which match f, newest first.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, f repo.ReviewFilter,
) ([]model.Review, error) {
	gdb := q.GORM(ctx).Order("created_at DESC").Order("id")
	if f.CarID != nil {
		gdb = gdb.Where("car_id = ?", *f.CarID)
	}
	if f.UserID != nil {
		gdb = gdb.Where("user_id = ?", *f.UserID)
	}
	var grs []gReview
	if err := gdb.Find(&grs).Error; err != nil {
		return nil, postgres.Error(err, "reviews")
	}
	reviews := make([]model.Review, 0, len(grs))
	for i := range grs {
		reviews = append(reviews, *grs[i].Model())
	}
	return reviews, nil
}

// Create inserts r. The (car_id, user_id) unique constraint rejects
// a second review of one car by the same user.
func Create(
	ctx context.Context, tx *postgres.Tx, r *model.Review,
) (*model.Review, error) {
	gr := gReview{
		ID:      uuid.New(),
		CarID:   r.CarID,
		UserID:  r.UserID,
		Rating:  r.Rating,
		Comment: r.Comment,
	}
	err := tx.GORM(ctx).Create(&gr).Error
	if postgres.IsUniqueViolation(err) {
		return nil, cerr.Conflict(
			errors.New("car is already reviewed by this user"),
		).WithCode(cerr.CodeDuplicateReview)
	}
	if err != nil {
		return nil, postgres.Error(err, "review")
	}
	return gr.Model(), nil
}

// Update stores the rating and comment of r.
func Update(
	ctx context.Context, tx *postgres.Tx, r *model.Review,
) (*model.Review, error) {
	var grs []gReview
	err := tx.GORM(ctx).Model(&grs).Clauses(clause.Returning{}).Where(
		"id = ?", r.ID,
	).Updates(map[string]any{
		"rating":     r.Rating,
		"comment":    r.Comment,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Error(err, "review")
	}
	if n := len(grs); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return grs[0].Model(), nil
}

func Delete(ctx context.Context, tx *postgres.Tx, reviewID uuid.UUID) error {
	gdb := tx.GORM(ctx).Delete(&gReview{}, "id = ?", reviewID)
	if err := gdb.Error; err != nil {
		return postgres.Error(err, "review")
	}
	if gdb.RowsAffected == 0 {
		return cerr.NotFound(errors.New("review not found"))
	}
	return nil
}

// RatingsOf returns the ratings of all reviews of the carID car.
func RatingsOf(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID,
) ([]int, error) {
	var ratings []int
	err := tx.GORM(ctx).Model(&gReview{}).Where(
		"car_id = ?", carID,
	).Pluck("rating", &ratings).Error
	if err != nil {
		return nil, postgres.Error(err, "reviews")
	}
	return ratings, nil
}
