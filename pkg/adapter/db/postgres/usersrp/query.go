// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name         string
	Email        string
	Phone        string
	Role         model.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	return &model.User{
		ID:           gu.ID,
		Name:         gu.Name,
		Email:        gu.Email,
		Phone:        gu.Phone,
		Role:         gu.Role,
		PasswordHash: gu.PasswordHash,
		CreatedAt:    gu.CreatedAt,
		UpdatedAt:    gu.UpdatedAt,
	}
}

func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID,
) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Take(&gu, "id = ?", userID).Error
	if err != nil {
		return nil, postgres.Error(err, "user")
	}
	return gu.Model(), nil
}

// FindByEmail finds a user by its (lower-cased) email address.
func FindByEmail[Q postgres.Queryer](
	ctx context.Context, q Q, email string,
) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Take(&gu, "email = ?", email).Error
	if err != nil {
		return nil, postgres.Error(err, "user")
	}
	return gu.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]model.User, error) {
	var gus []gUser
	if err := q.GORM(ctx).Order("email").Find(&gus).Error; err != nil {
		return nil, postgres.Error(err, "users")
	}
	users := make([]model.User, 0, len(gus))
	for i := range gus {
		users = append(users, *gus[i].Model())
	}
	return users, nil
}

func Create(
	ctx context.Context, tx *postgres.Tx, u *model.User,
) (*model.User, error) {
	gu := gUser{
		ID:           uuid.New(),
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
	}
	err := tx.GORM(ctx).Create(&gu).Error
	if postgres.IsUniqueViolation(err) {
		return nil, cerr.Conflict(
			errors.New("email is already registered"),
		)
	}
	if err != nil {
		return nil, postgres.Error(err, "user")
	}
	return gu.Model(), nil
}

// UpdateProfile stores the name and phone of u.
func UpdateProfile(
	ctx context.Context, tx *postgres.Tx, u *model.User,
) (*model.User, error) {
	var gus []gUser
	err := tx.GORM(ctx).Model(&gus).Clauses(clause.Returning{}).Where(
		"id = ?", u.ID,
	).Updates(map[string]any{
		"name":       u.Name,
		"phone":      u.Phone,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, postgres.Error(err, "user")
	}
	if n := len(gus); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gus[0].Model(), nil
}
