// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func date(days int) time.Time {
	return time.Date(2024, time.June, 1+days, 0, 0, 0, 0, time.UTC)
}

type recorder struct {
	mu        sync.Mutex
	created   map[bool]int
	cancelled map[bool]int
	deleted   map[bool]int
	decisions map[string]int
	completed int64
}

func newRecorder() *recorder {
	return &recorder{
		created:   map[bool]int{},
		cancelled: map[bool]int{},
		deleted:   map[bool]int{},
		decisions: map[string]int{},
	}
}

func (r *recorder) BookingCreated(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[ok]++
}

func (r *recorder) BookingCancelled(restored bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[restored]++
}

func (r *recorder) BookingDeleted(restored bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted[restored]++
}

func (r *recorder) BookingDecision(d string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions[d]++
}

func (r *recorder) BookingsCompleted(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed += n
}

type BookingsUseCaseTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Store *memrepo.Store
	UC    *bookingsuc.UseCase
	Rec   *recorder

	Alice, Bob, Admin model.Actor
}

func TestBookingsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(BookingsUseCaseTestSuite))
}

func (s *BookingsUseCaseTestSuite) SetupTest() {
	s.Ctx = context.Background()
	s.Store = memrepo.New()
	s.Store.SetClock(func() time.Time { return now })
	s.Rec = newRecorder()
	uc, err := bookingsuc.New(
		s.Store, s.Store.Cars(), s.Store.Bookings(), s.Store.Services(),
		bookingsuc.WithRecorder(s.Rec),
		bookingsuc.WithClock(func() time.Time { return now }),
	)
	s.Require().NoError(err)
	s.UC = uc
	s.Alice = model.Actor{ID: uuid.New(), Role: model.RoleUser}
	s.Bob = model.Actor{ID: uuid.New(), Role: model.RoleUser}
	s.Admin = model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
}

func (s *BookingsUseCaseTestSuite) addCar(stock int) model.Car {
	return s.Store.AddCar(model.Car{
		Name:         "Corolla",
		Brand:        "Toyota",
		PricePerDay:  decimal.NewFromInt(50),
		Stock:        stock,
		Availability: stock > 0,
	})
}

func (s *BookingsUseCaseTestSuite) book(
	actor model.Actor, carID uuid.UUID, from, to int,
	services ...uuid.UUID,
) (*model.Booking, error) {
	return s.UC.Create(s.Ctx, actor, model.BookingRequest{
		CarID:      carID,
		Range:      model.DateRange{Start: date(from), End: date(to)},
		ServiceIDs: services,
	})
}

func assertCode(t *testing.T, err error, status int, code cerr.Code) {
	t.Helper()
	var ce *cerr.Error
	if assert.ErrorAs(t, err, &ce) {
		assert.Equal(t, status, ce.HTTPStatusCode)
		assert.Equal(t, code, ce.Code)
	}
}

func (s *BookingsUseCaseTestSuite) TestCreateTakesStockAndPricesDays() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	s.Equal(model.BookingPending, b.Status)
	s.Equal(model.PaymentPending, b.PaymentStatus)
	s.True(b.StockHeld)
	s.Equal(s.Alice.ID, b.UserID)
	s.True(decimal.NewFromInt(100).Equal(b.TotalAmount), b.TotalAmount)

	c := s.Store.Car(car.ID)
	s.Equal(0, c.Stock)
	s.False(c.Availability)
	s.Equal(1, s.Rec.created[true])
}

func (s *BookingsUseCaseTestSuite) TestCreateChargesServicesPerDay() {
	car := s.addCar(3)
	gps := s.Store.AddService(model.AdditionalService{
		Name: "GPS", Price: decimal.NewFromInt(10),
		Type: model.ServiceEquipment, Active: true,
	})
	b, err := s.book(s.Alice, car.ID, 1, 3, gps.ID, gps.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(120).Equal(b.TotalAmount), b.TotalAmount)
	s.Require().Len(b.Services, 1)
	s.Equal("GPS", b.Services[0].Name)
	s.Equal(2, s.Store.Car(car.ID).Stock)
	s.True(s.Store.Car(car.ID).Availability)
}

func (s *BookingsUseCaseTestSuite) TestCreateRejectsInactiveService() {
	car := s.addCar(1)
	old := s.Store.AddService(model.AdditionalService{
		Name: "Chains", Price: decimal.NewFromInt(5),
		Type: model.ServiceEquipment, Active: false,
	})
	_, err := s.book(s.Alice, car.ID, 1, 3, old.ID)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)
	s.Equal(1, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestOverlapIsDoubleBooking() {
	car := s.addCar(5)
	_, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	// starting on the day which the other booking ends still conflicts
	_, err = s.book(s.Bob, car.ID, 3, 5)
	assertCode(s.T(), err, http.StatusConflict, cerr.CodeDoubleBooking)
	_, err = s.book(s.Bob, car.ID, 2, 10)
	assertCode(s.T(), err, http.StatusConflict, cerr.CodeDoubleBooking)
	s.Equal(4, s.Store.Car(car.ID).Stock)

	_, err = s.book(s.Bob, car.ID, 4, 6)
	s.NoError(err)
	s.Equal(3, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestCancelledBookingsDoNotBlock() {
	car := s.addCar(2)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	_, err = s.UC.Cancel(s.Ctx, s.Alice, b.ID)
	s.Require().NoError(err)
	_, err = s.book(s.Bob, car.ID, 1, 3)
	s.NoError(err)
}

func (s *BookingsUseCaseTestSuite) TestHasConflictExcludesBooking() {
	car := s.addCar(2)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	r := b.Range()
	conflict, err := s.UC.HasConflict(s.Ctx, car.ID, r, nil)
	s.Require().NoError(err)
	s.True(conflict)
	conflict, err = s.UC.HasConflict(s.Ctx, car.ID, r, &b.ID)
	s.Require().NoError(err)
	s.False(conflict)
	conflict, err = s.UC.HasConflict(s.Ctx, uuid.New(), r, nil)
	s.Require().NoError(err)
	s.False(conflict)
}

func (s *BookingsUseCaseTestSuite) TestOutOfStockKeepsStockAtZero() {
	car := s.addCar(0)
	_, err := s.book(s.Alice, car.ID, 1, 3)
	assertCode(s.T(), err, http.StatusConflict, cerr.CodeOutOfStock)
	s.Equal(0, s.Store.Car(car.ID).Stock)
	s.Equal(1, s.Rec.created[false])
}

func (s *BookingsUseCaseTestSuite) TestUnavailableCar() {
	car := s.Store.AddCar(model.Car{
		Name: "Golf", PricePerDay: decimal.NewFromInt(40),
		Stock: 2, Availability: false,
	})
	_, err := s.book(s.Alice, car.ID, 1, 3)
	assertCode(s.T(), err, http.StatusConflict, cerr.CodeCarUnavailable)
	s.Equal(2, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestCreateValidation() {
	car := s.addCar(1)
	_, err := s.book(s.Alice, car.ID, 3, 3)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)
	_, err = s.book(s.Alice, car.ID, -3, -1)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)
	_, err = s.book(s.Alice, car.ID, 1, 200)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)
	_, err = s.book(s.Alice, uuid.New(), 1, 3)
	assertCode(s.T(), err, http.StatusNotFound, cerr.CodeNotFound)
	s.Equal(1, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestFailedInsertRollsBackStock() {
	car := s.addCar(1)
	// lock, conflict check, and stock decrement succeed; insert fails
	s.Store.FailAt(4, errors.New("connection reset"))
	_, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().Error(err)
	c := s.Store.Car(car.ID)
	s.Equal(1, c.Stock)
	s.True(c.Availability)
}

func (s *BookingsUseCaseTestSuite) TestCancelRestoresStockOnce() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)

	cancelled, err := s.UC.Cancel(s.Ctx, s.Alice, b.ID)
	s.Require().NoError(err)
	s.Equal(model.BookingCancelled, cancelled.Status)
	s.False(cancelled.StockHeld)
	c := s.Store.Car(car.ID)
	s.Equal(1, c.Stock)
	s.True(c.Availability)

	_, err = s.UC.Cancel(s.Ctx, s.Alice, b.ID)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeInvalidTransition)
	s.Equal(1, s.Store.Car(car.ID).Stock)

	s.Require().NoError(s.UC.Delete(s.Ctx, s.Alice, b.ID))
	s.Equal(1, s.Store.Car(car.ID).Stock)
	s.Equal(1, s.Rec.cancelled[true])
	s.Equal(1, s.Rec.deleted[false])
}

// disable clears the availability flag of a car, as an admin does.
func (s *BookingsUseCaseTestSuite) disable(carID uuid.UUID) {
	err := s.Store.Conn(s.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			car, err := s.Store.Cars().Tx(tx).ToggleAvailability(ctx, carID)
			if err == nil && car.Availability {
				err = errors.New("car was not available")
			}
			return err
		})
	})
	s.Require().NoError(err)
}

func (s *BookingsUseCaseTestSuite) TestCancelKeepsDisabledCarDisabled() {
	car := s.addCar(2)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	s.disable(car.ID)

	_, err = s.UC.Cancel(s.Ctx, s.Alice, b.ID)
	s.Require().NoError(err)
	c := s.Store.Car(car.ID)
	s.Equal(2, c.Stock)
	s.False(c.Availability)
}

func (s *BookingsUseCaseTestSuite) TestDeleteEnablesSoldOutCar() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	s.False(s.Store.Car(car.ID).Availability)

	s.Require().NoError(s.UC.Delete(s.Ctx, s.Admin, b.ID))
	c := s.Store.Car(car.ID)
	s.Equal(1, c.Stock)
	s.True(c.Availability)
}

func (s *BookingsUseCaseTestSuite) TestDeleteRestoresStockOnce() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	s.Require().NoError(s.UC.Delete(s.Ctx, s.Alice, b.ID))
	c := s.Store.Car(car.ID)
	s.Equal(1, c.Stock)
	s.True(c.Availability)
	_, ok := s.Store.Booking(b.ID)
	s.False(ok)

	err = s.UC.Delete(s.Ctx, s.Alice, b.ID)
	assertCode(s.T(), err, http.StatusNotFound, cerr.CodeNotFound)
	s.Equal(1, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestRejectKeepsUnitUntilDelete() {
	car := s.addCar(2)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)

	_, err = s.UC.Reject(s.Ctx, s.Alice, b.ID)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)

	rejected, err := s.UC.Reject(s.Ctx, s.Admin, b.ID)
	s.Require().NoError(err)
	s.Equal(model.BookingCancelled, rejected.Status)
	s.True(rejected.StockHeld)
	s.Equal(1, s.Store.Car(car.ID).Stock)

	s.Require().NoError(s.UC.Delete(s.Ctx, s.Admin, b.ID))
	s.Equal(2, s.Store.Car(car.ID).Stock)
	s.Equal(1, s.Rec.decisions["rejected"])
}

func (s *BookingsUseCaseTestSuite) TestApprove() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)

	_, err = s.UC.Approve(s.Ctx, s.Alice, b.ID)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)

	approved, err := s.UC.Approve(s.Ctx, s.Admin, b.ID)
	s.Require().NoError(err)
	s.Equal(model.BookingActive, approved.Status)
	s.Equal(0, s.Store.Car(car.ID).Stock)

	_, err = s.UC.Approve(s.Ctx, s.Admin, b.ID)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeInvalidTransition)
	_, err = s.UC.Reject(s.Ctx, s.Admin, b.ID)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeInvalidTransition)

	// an active booking may still be cancelled by its owner
	_, err = s.UC.Cancel(s.Ctx, s.Alice, b.ID)
	s.Require().NoError(err)
	s.Equal(1, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestOwnershipIsEnforced() {
	car := s.addCar(2)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)

	_, err = s.UC.Get(s.Ctx, s.Bob, b.ID)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)
	_, err = s.UC.Cancel(s.Ctx, s.Bob, b.ID)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)
	err = s.UC.Delete(s.Ctx, s.Bob, b.ID)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)
	s.Equal(1, s.Store.Car(car.ID).Stock)

	got, err := s.UC.Get(s.Ctx, s.Alice, b.ID)
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)
	got, err = s.UC.Get(s.Ctx, s.Admin, b.ID)
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)
}

func (s *BookingsUseCaseTestSuite) TestList() {
	car := s.addCar(5)
	_, err := s.book(s.Alice, car.ID, 1, 2)
	s.Require().NoError(err)
	bb, err := s.book(s.Bob, car.ID, 4, 5)
	s.Require().NoError(err)
	_, err = s.UC.Cancel(s.Ctx, s.Bob, bb.ID)
	s.Require().NoError(err)

	mine, err := s.UC.List(s.Ctx, s.Alice, nil)
	s.Require().NoError(err)
	s.Len(mine, 1)
	all, err := s.UC.List(s.Ctx, s.Admin, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
	cancelled := model.BookingCancelled
	only, err := s.UC.List(s.Ctx, s.Admin, &cancelled)
	s.Require().NoError(err)
	s.Require().Len(only, 1)
	s.Equal(bb.ID, only[0].ID)

	bad := model.BookingStatus("lost")
	_, err = s.UC.List(s.Ctx, s.Admin, &bad)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)
}

func (s *BookingsUseCaseTestSuite) TestUpdateStatus() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	active := model.BookingActive
	cancelled := model.BookingCancelled
	paid := model.PaymentPaid

	_, err = s.UC.UpdateStatus(
		s.Ctx, s.Alice, b.ID, bookingsuc.StatusUpdate{Status: &active},
	)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)
	_, err = s.UC.UpdateStatus(
		s.Ctx, s.Alice, b.ID, bookingsuc.StatusUpdate{PaymentStatus: &paid},
	)
	assertCode(s.T(), err, http.StatusForbidden, cerr.CodeForbidden)
	_, err = s.UC.UpdateStatus(s.Ctx, s.Admin, b.ID, bookingsuc.StatusUpdate{})
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeValidation)

	got, err := s.UC.UpdateStatus(
		s.Ctx, s.Admin, b.ID,
		bookingsuc.StatusUpdate{Status: &active, PaymentStatus: &paid},
	)
	s.Require().NoError(err)
	s.Equal(model.BookingActive, got.Status)
	s.Equal(model.PaymentPaid, got.PaymentStatus)

	got, err = s.UC.UpdateStatus(
		s.Ctx, s.Alice, b.ID, bookingsuc.StatusUpdate{Status: &cancelled},
	)
	s.Require().NoError(err)
	s.Equal(model.BookingCancelled, got.Status)
	s.Equal(1, s.Store.Car(car.ID).Stock)

	_, err = s.UC.UpdateStatus(
		s.Ctx, s.Alice, b.ID, bookingsuc.StatusUpdate{Status: &cancelled},
	)
	assertCode(s.T(), err, http.StatusBadRequest, cerr.CodeInvalidTransition)
	s.Equal(1, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestCompleteExpired() {
	car := s.addCar(3)
	old := s.Store.AddBooking(model.Booking{
		CarID: car.ID, UserID: s.Alice.ID,
		StartDate: date(-5), EndDate: date(-2),
		Status: model.BookingActive, PaymentStatus: model.PaymentPaid,
		StockHeld: true,
	})
	legacy := s.Store.AddBooking(model.Booking{
		CarID: car.ID, UserID: s.Alice.ID,
		StartDate: date(-9), EndDate: date(-7),
		Status: model.BookingConfirmed, PaymentStatus: model.PaymentPaid,
	})
	waiting := s.Store.AddBooking(model.Booking{
		CarID: car.ID, UserID: s.Bob.ID,
		StartDate: date(-5), EndDate: date(-2),
		Status: model.BookingPending, PaymentStatus: model.PaymentPending,
	})
	running := s.Store.AddBooking(model.Booking{
		CarID: car.ID, UserID: s.Bob.ID,
		StartDate: date(-1), EndDate: date(2),
		Status: model.BookingActive, PaymentStatus: model.PaymentPaid,
	})

	n, err := s.UC.CompleteExpired(s.Ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)
	for id, exp := range map[uuid.UUID]model.BookingStatus{
		old.ID:     model.BookingCompleted,
		legacy.ID:  model.BookingCompleted,
		waiting.ID: model.BookingPending,
		running.ID: model.BookingActive,
	} {
		b, ok := s.Store.Booking(id)
		s.Require().True(ok)
		s.Equal(exp, b.Status)
	}
	// only the old booking was holding a unit
	s.Equal(4, s.Store.Car(car.ID).Stock)
	b, _ := s.Store.Booking(old.ID)
	s.False(b.StockHeld)
	s.EqualValues(2, s.Rec.completed)

	n, err = s.UC.CompleteExpired(s.Ctx)
	s.Require().NoError(err)
	s.Zero(n)
	s.Equal(4, s.Store.Car(car.ID).Stock)
}

func (s *BookingsUseCaseTestSuite) TestCompletedRentalFreesCar() {
	car := s.addCar(1)
	b, err := s.book(s.Alice, car.ID, 1, 3)
	s.Require().NoError(err)
	_, err = s.UC.Approve(s.Ctx, s.Admin, b.ID)
	s.Require().NoError(err)
	s.Equal(0, s.Store.Car(car.ID).Stock)

	s.Store.SetClock(func() time.Time { return date(5) })
	uc, err := bookingsuc.New(
		s.Store, s.Store.Cars(), s.Store.Bookings(), s.Store.Services(),
		bookingsuc.WithRecorder(s.Rec),
		bookingsuc.WithClock(func() time.Time { return date(5) }),
	)
	s.Require().NoError(err)
	n, err := uc.CompleteExpired(s.Ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	c := s.Store.Car(car.ID)
	s.Equal(1, c.Stock)
	s.True(c.Availability)
	_, err = uc.Create(s.Ctx, s.Bob, model.BookingRequest{
		CarID: car.ID,
		Range: model.DateRange{Start: date(6), End: date(8)},
	})
	s.NoError(err)
}

func TestConcurrentCreationsNeverOversell(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	uc, err := bookingsuc.New(
		store, store.Cars(), store.Bookings(), store.Services(),
		bookingsuc.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	car := store.AddCar(model.Car{
		Name: "Model 3", PricePerDay: decimal.NewFromInt(80),
		Stock: 3, Availability: true,
	})
	const workers = 12
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := model.Actor{ID: uuid.New(), Role: model.RoleUser}
			// disjoint ranges, so only the stock limits the bookings
			_, errs[i] = uc.Create(ctx, actor, model.BookingRequest{
				CarID: car.ID,
				Range: model.DateRange{
					Start: date(1 + 3*i), End: date(2 + 3*i),
				},
			})
		}(i)
	}
	wg.Wait()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assertCode(t, err, http.StatusConflict, cerr.CodeOutOfStock)
	}
	assert.Equal(t, 3, ok)
	c := store.Car(car.ID)
	assert.Equal(t, 0, c.Stock)
	assert.False(t, c.Availability)
}
