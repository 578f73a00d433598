// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reviewsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter map[string]int

func (c counter) ReviewWritten(op string) {
	c[op]++
}

type fixture struct {
	ctx   context.Context
	store *memrepo.Store
	uc    *reviewsuc.UseCase
	ops   counter
	car   model.Car
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memrepo.New(),
		ops:   counter{},
	}
	uc, err := reviewsuc.New(
		f.store, f.store.Cars(), f.store.Reviews(),
		reviewsuc.WithRecorder(f.ops),
	)
	require.NoError(t, err)
	f.uc = uc
	f.car = f.store.AddCar(model.Car{
		Name: "Civic", PricePerDay: decimal.NewFromInt(45),
		Stock: 1, Availability: true,
	})
	return f
}

func (f *fixture) review(
	t *testing.T, actor model.Actor, rating int,
) *model.Review {
	t.Helper()
	r, err := f.uc.Create(f.ctx, actor, model.Review{
		CarID: f.car.ID, Rating: rating, Comment: "nice ride",
	})
	require.NoError(t, err)
	return r
}

func user() model.Actor {
	return model.Actor{ID: uuid.New(), Role: model.RoleUser}
}

func requireCode(t *testing.T, err error, status int, code cerr.Code) {
	t.Helper()
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce), "unexpected error: %v", err)
	assert.Equal(t, status, ce.HTTPStatusCode)
	assert.Equal(t, code, ce.Code)
}

func TestCreateRecomputesRating(t *testing.T) {
	f := newFixture(t)
	a := user()
	r := f.review(t, a, 4)
	assert.Equal(t, a.ID, r.UserID)
	c := f.store.Car(f.car.ID)
	assert.Equal(t, 4.0, c.Rating)
	assert.Equal(t, 1, c.NumberOfReviews)

	f.review(t, user(), 4)
	f.review(t, user(), 5)
	c = f.store.Car(f.car.ID)
	assert.Equal(t, 4.3, c.Rating)
	assert.Equal(t, 3, c.NumberOfReviews)
	assert.Equal(t, 3, f.ops["created"])
}

func TestDuplicateReviewIsConflict(t *testing.T) {
	f := newFixture(t)
	a := user()
	f.review(t, a, 5)
	_, err := f.uc.Create(f.ctx, a, model.Review{
		CarID: f.car.ID, Rating: 1, Comment: "changed my mind",
	})
	requireCode(t, err, http.StatusConflict, cerr.CodeDuplicateReview)
	c := f.store.Car(f.car.ID)
	assert.Equal(t, 5.0, c.Rating)
	assert.Equal(t, 1, c.NumberOfReviews)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	for _, r := range []model.Review{
		{CarID: f.car.ID, Rating: 0, Comment: "meh"},
		{CarID: f.car.ID, Rating: 6, Comment: "wow"},
		{CarID: f.car.ID, Rating: 3, Comment: "   "},
	} {
		_, err := f.uc.Create(f.ctx, user(), r)
		requireCode(t, err, http.StatusBadRequest, cerr.CodeValidation)
	}
	_, err := f.uc.Create(f.ctx, user(), model.Review{
		CarID: uuid.New(), Rating: 3, Comment: "which car?",
	})
	requireCode(t, err, http.StatusNotFound, cerr.CodeNotFound)
}

func TestUpdateAndDeleteRecomputeRating(t *testing.T) {
	f := newFixture(t)
	a, b := user(), user()
	ra := f.review(t, a, 5)
	f.review(t, b, 4)
	assert.Equal(t, 4.5, f.store.Car(f.car.ID).Rating)

	one := 1
	_, err := f.uc.Update(f.ctx, b, ra.ID, reviewsuc.Patch{Rating: &one})
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)

	updated, err := f.uc.Update(f.ctx, a, ra.ID, reviewsuc.Patch{Rating: &one})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)
	assert.Equal(t, "nice ride", updated.Comment)
	assert.Equal(t, 2.5, f.store.Car(f.car.ID).Rating)

	_, err = f.uc.Update(f.ctx, a, ra.ID, reviewsuc.Patch{})
	requireCode(t, err, http.StatusBadRequest, cerr.CodeValidation)

	err = f.uc.Delete(f.ctx, b, ra.ID)
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	require.NoError(t, f.uc.Delete(f.ctx, admin, ra.ID))
	c := f.store.Car(f.car.ID)
	assert.Equal(t, 4.0, c.Rating)
	assert.Equal(t, 1, c.NumberOfReviews)

	list, err := f.uc.List(f.ctx, repo.ReviewFilter{CarID: &f.car.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, map[string]int{"created": 2, "updated": 1, "deleted": 1},
		map[string]int(f.ops))
}

func TestDeletingLastReviewResetsRating(t *testing.T) {
	f := newFixture(t)
	a := user()
	r := f.review(t, a, 3)
	require.NoError(t, f.uc.Delete(f.ctx, a, r.ID))
	c := f.store.Car(f.car.ID)
	assert.Equal(t, 0.0, c.Rating)
	assert.Equal(t, 0, c.NumberOfReviews)

	_, err := f.uc.Get(f.ctx, r.ID)
	requireCode(t, err, http.StatusNotFound, cerr.CodeNotFound)
}
