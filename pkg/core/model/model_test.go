// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeValidate(t *testing.T) {
	assert.NoError(t, model.DateRange{Start: day(1), End: day(3)}.Validate())
	assert.ErrorIs(t,
		model.DateRange{Start: day(3), End: day(3)}.Validate(),
		model.ErrEmptyRange,
	)
	assert.ErrorIs(t,
		model.DateRange{Start: day(4), End: day(3)}.Validate(),
		model.ErrEmptyRange,
	)
}

func TestDateRangeDaysRoundsUp(t *testing.T) {
	r := model.DateRange{Start: day(1), End: day(3)}
	assert.Equal(t, 2, r.Days())
	r.End = r.End.Add(time.Hour)
	assert.Equal(t, 3, r.Days())
	r = model.DateRange{Start: day(1), End: day(1).Add(time.Minute)}
	assert.Equal(t, 1, r.Days())
}

func TestDateRangeOverlapsInclusive(t *testing.T) {
	base := model.DateRange{Start: day(10), End: day(12)}
	cases := []struct {
		name string
		r    model.DateRange
		exp  bool
	}{
		{"before", model.DateRange{Start: day(5), End: day(9)}, false},
		{"touching start", model.DateRange{Start: day(8), End: day(10)}, true},
		{"inside", model.DateRange{Start: day(11), End: day(11).Add(time.Hour)}, true},
		{"covering", model.DateRange{Start: day(1), End: day(20)}, true},
		{"touching end", model.DateRange{Start: day(12), End: day(14)}, true},
		{"after", model.DateRange{Start: day(13), End: day(14)}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.exp, base.Overlaps(c.r), c.name)
		assert.Equal(t, c.exp, c.r.Overlaps(base), c.name+" (swapped)")
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	allowed := map[model.BookingStatus][]model.BookingStatus{
		model.BookingPending: {
			model.BookingActive, model.BookingCancelled,
		},
		model.BookingActive: {
			model.BookingCompleted, model.BookingCancelled,
		},
		model.BookingConfirmed: {
			model.BookingCompleted, model.BookingCancelled,
		},
	}
	all := []model.BookingStatus{
		model.BookingPending, model.BookingActive,
		model.BookingConfirmed, model.BookingCancelled,
		model.BookingCompleted,
	}
	for _, from := range all {
		for _, to := range all {
			exp := false
			for _, a := range allowed[from] {
				if a == to {
					exp = true
				}
			}
			assert.Equal(t, exp, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, model.BookingCancelled.Terminal())
	assert.True(t, model.BookingCompleted.Terminal())
	assert.False(t, model.BookingConfirmed.BlocksCalendar())
}

func TestParseBookingStatus(t *testing.T) {
	bs, err := model.ParseBookingStatus("active")
	require.NoError(t, err)
	assert.Equal(t, model.BookingActive, bs)
	_, err = model.ParseBookingStatus("lost")
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	price := decimal.NewFromInt(50)
	assert.True(t, decimal.NewFromInt(100).Equal(model.Quote(price, nil, 2)))
	gps := model.BookedService{
		ServiceID: uuid.New(), Name: "GPS", Price: decimal.NewFromInt(10),
	}
	total := model.Quote(price, []model.BookedService{gps}, 2)
	assert.True(t, decimal.NewFromInt(120).Equal(total), total.String())
}

func TestAggregateRatings(t *testing.T) {
	avg, n := model.AggregateRatings(nil)
	assert.Zero(t, avg)
	assert.Zero(t, n)
	avg, n = model.AggregateRatings([]int{5, 4, 4})
	assert.Equal(t, 4.3, avg)
	assert.Equal(t, 3, n)
	avg, n = model.AggregateRatings([]int{5, 4})
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 2, n)
	avg, _ = model.AggregateRatings([]int{1, 2, 2})
	assert.Equal(t, 1.7, avg)
}

func TestReviewValidate(t *testing.T) {
	r := &model.Review{Rating: 0, Comment: "ok"}
	assert.Error(t, r.Validate())
	r.Rating = 6
	assert.Error(t, r.Validate())
	r.Rating = 3
	r.Comment = "  "
	assert.Error(t, r.Validate())
	r.Comment = "fine"
	assert.NoError(t, r.Validate())
}

func TestCarPatchClearsAvailability(t *testing.T) {
	c := &model.Car{Stock: 2, Availability: true}
	zero := 0
	model.CarPatch{Stock: &zero}.Apply(c)
	assert.Equal(t, 0, c.Stock)
	assert.False(t, c.Availability)
	assert.False(t, c.Rentable())
}

func TestActorCanAccess(t *testing.T) {
	owner := uuid.New()
	assert.True(t, model.Actor{ID: owner, Role: model.RoleUser}.CanAccess(owner))
	assert.False(t, model.Actor{ID: uuid.New(), Role: model.RoleUser}.CanAccess(owner))
	assert.True(t, model.Actor{ID: uuid.New(), Role: model.RoleAdmin}.CanAccess(owner))
}

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, model.Coordinate{Lat: 35.7, Lon: 51.4}.Validate())
	assert.Error(t, model.Coordinate{Lat: 91}.Validate())
	assert.Error(t, model.Coordinate{Lon: -181}.Validate())
}

func TestSemVerText(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2.3")))
	assert.Equal(t, model.SemVer{1, 2, 3}, sv)
	require.NoError(t, sv.UnmarshalText([]byte("2")))
	assert.Equal(t, "2.0.0", sv.String())

	for _, bad := range []string{"", "1.2.3.4", "1.x", "-1.0"} {
		assert.Error(t, sv.UnmarshalText([]byte(bad)), bad)
	}
	assert.Equal(t, model.SemVer{2, 0, 0}, sv, "failures must keep sv")

	b, err := model.SemVer{1, 0, 4}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.0.4", string(b))
}
