// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/car-rental/pkg/adapter/metrics/prom"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const settings = `
database:
  host: localhost
  port: 5432
  name: crweb
  pass-dir: /nonexistent
redis:
  addr: localhost:6379
auth:
  jwt-secret: 0123456789abcdef0123456789abcdef
  hash-iterations: 4096
versions:
  database: 1.0.0
  config: 1.0.0
`

type envelope struct {
	Status  string              `json:"status"`
	Data    json.RawMessage     `json:"data"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

type GinTestSuite struct {
	suite.Suite

	Ctx     context.Context
	Config  *cfg1.Config
	Store   *memrepo.Store
	Metrics *prom.Metrics
	App     *appuc.UseCase
	Gin     *gin.Engine
}

func TestGinTestSuite(t *testing.T) {
	suite.Run(t, &GinTestSuite{Ctx: context.Background()})
}

func (gts *GinTestSuite) SetupSuite() {
	gin.ReleaseMode()
	c, err := cfg1.Load([]byte(settings))
	gts.Require().NoError(err, "failed to load settings")
	gts.Config = c
}

func (gts *GinTestSuite) SetupTest() {
	gts.Store = memrepo.New()
	gts.Metrics = prom.New(false)
	gts.Gin = gin.New(gin.Observe(gts.Metrics))
	d := appuc.Dependencies{
		Pool:             gts.Store,
		Cars:             gts.Store.Cars(),
		Bookings:         gts.Store.Bookings(),
		Reviews:          gts.Store.Reviews(),
		Services:         gts.Store.Services(),
		Users:            gts.Store.Users(),
		Sessions:         memrepo.NewSessions(time.Now),
		BookingsRecorder: gts.Metrics,
		ReviewsRecorder:  gts.Metrics,
	}
	app, err := routes.Register(gts.Gin, gts.Config, d, gts.Metrics.Handler())
	gts.Require().NoError(err, "failed to register Gin routes")
	gts.App = app
}

func (gts *GinTestSuite) do(
	method, path, token string, body any,
) (int, envelope) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		gts.Require().NoError(err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, routes.APIPrefix+path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	gts.Gin.ServeHTTP(w, req)
	var env envelope
	gts.Require().NoError(
		json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String(),
	)
	return w.Code, env
}

func (gts *GinTestSuite) decode(env envelope, v any) {
	gts.Require().NoError(json.Unmarshal(env.Data, v), string(env.Data))
}

// signUp registers a user (via the REST API) and returns its access
// token and identifier.
func (gts *GinTestSuite) signUp(email string) (string, uuid.UUID) {
	status, env := gts.do(http.MethodPost, "/auth/register", "", map[string]any{
		"name": "User " + email, "email": email, "password": "secret-pass",
	})
	gts.Require().Equal(http.StatusCreated, status, env.Message)
	var u model.User
	gts.decode(env, &u)
	return gts.login(email, "secret-pass"), u.ID
}

func (gts *GinTestSuite) login(email, pass string) string {
	status, env := gts.do(http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": pass,
	})
	gts.Require().Equal(http.StatusOK, status, env.Message)
	var tp model.TokenPair
	gts.decode(env, &tp)
	gts.Require().NotEmpty(tp.AccessToken)
	return tp.AccessToken
}

func (gts *GinTestSuite) admin() string {
	_, err := gts.App.AuthUseCase().CreateAdmin(gts.Ctx, authuc.Registration{
		Name: "Admin", Email: "admin@crweb.test", Password: "admin-pass",
	})
	gts.Require().NoError(err)
	return gts.login("admin@crweb.test", "admin-pass")
}

func (gts *GinTestSuite) addCar(stock int) model.Car {
	return gts.Store.AddCar(model.Car{
		Name: "Corolla", Brand: "Toyota", Model: "E210", Year: 2022,
		PricePerDay:  decimal.NewFromInt(40),
		Stock:        stock,
		Availability: stock > 0,
	})
}

func dayAfter(days int) string {
	d := time.Now().UTC().Truncate(24 * time.Hour)
	return d.AddDate(0, 0, days).Format("2006-01-02")
}

func (gts *GinTestSuite) TestMissingTokenIsRejected() {
	status, env := gts.do(http.MethodGet, "/bookings", "", nil)
	gts.Equal(http.StatusUnauthorized, status)
	gts.Equal("error", env.Status)
	gts.Equal("unauthenticated", env.Code)

	status, env = gts.do(http.MethodGet, "/bookings", "not-a-jwt", nil)
	gts.Equal(http.StatusUnauthorized, status)
	gts.Equal("unauthenticated", env.Code)
}

func (gts *GinTestSuite) TestAuthFlow() {
	status, env := gts.do(http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Sara", "email": "sara@crweb.test", "password": "secret-pass",
	})
	gts.Require().Equal(http.StatusCreated, status)
	gts.Equal("success", env.Status)

	status, env = gts.do(http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Sara", "email": "sara@crweb.test", "password": "secret-pass",
	})
	gts.Equal(http.StatusConflict, status, "duplicate email")

	status, env = gts.do(http.MethodPost, "/auth/login", "", map[string]any{
		"email": "sara@crweb.test", "password": "wrong-pass",
	})
	gts.Equal(http.StatusUnauthorized, status)

	status, env = gts.do(http.MethodPost, "/auth/login", "", map[string]any{
		"email": "sara@crweb.test", "password": "secret-pass",
	})
	gts.Require().Equal(http.StatusOK, status)
	var login struct {
		model.TokenPair
		User model.User `json:"user"`
	}
	gts.decode(env, &login)
	gts.Equal("sara@crweb.test", login.User.Email)
	gts.Equal(model.RoleUser, login.User.Role)

	status, env = gts.do(http.MethodGet, "/users/me", login.AccessToken, nil)
	gts.Require().Equal(http.StatusOK, status)
	var me model.User
	gts.decode(env, &me)
	gts.Equal(login.User.ID, me.ID)

	status, env = gts.do(http.MethodGet, "/users", login.AccessToken, nil)
	gts.Equal(http.StatusForbidden, status, "only admins list users")

	refresh := map[string]any{"refreshToken": login.RefreshToken}
	status, env = gts.do(http.MethodPost, "/auth/refresh", "", refresh)
	gts.Require().Equal(http.StatusOK, status)
	var tp model.TokenPair
	gts.decode(env, &tp)
	gts.NotEqual(login.RefreshToken, tp.RefreshToken)

	status, _ = gts.do(http.MethodPost, "/auth/refresh", "", refresh)
	gts.Equal(http.StatusUnauthorized, status, "refresh tokens are single use")
}

func (gts *GinTestSuite) TestBookingFlow() {
	car := gts.addCar(2)
	alice, _ := gts.signUp("alice@crweb.test")
	bob, _ := gts.signUp("bob@crweb.test")

	req := map[string]any{
		"vehicleId": car.ID.String(),
		"startDate": dayAfter(1),
		"endDate":   dayAfter(4),
		"pickupLocation": map[string]any{
			"address":     "Central station",
			"coordinates": map[string]any{"lat": 35.7, "lon": 51.4},
		},
		"extras": map[string]any{"childSeat": true},
	}
	status, env := gts.do(http.MethodPost, "/bookings", alice, req)
	gts.Require().Equal(http.StatusCreated, status, env.Message)
	var b model.Booking
	gts.decode(env, &b)
	gts.Equal(model.BookingPending, b.Status)
	gts.True(decimal.NewFromInt(120).Equal(b.TotalAmount), b.TotalAmount)
	gts.Require().NotNil(b.PickupLocation)
	gts.Equal("Central station", b.PickupLocation.Address)
	gts.Equal(true, b.Extras["childSeat"])
	gts.Equal(1, gts.Store.Car(car.ID).Stock)

	req["startDate"], req["endDate"] = dayAfter(3), dayAfter(6)
	status, env = gts.do(http.MethodPost, "/bookings", bob, req)
	gts.Equal(http.StatusConflict, status)
	gts.Equal("double_booking", env.Code)

	status, env = gts.do(http.MethodGet, "/bookings/"+b.ID.String(), bob, nil)
	gts.Equal(http.StatusForbidden, status)
	gts.Equal("forbidden", env.Code)

	status, env = gts.do(http.MethodGet, "/bookings", bob, nil)
	gts.Require().Equal(http.StatusOK, status)
	gts.JSONEq("[]", string(env.Data))

	status, env = gts.do(
		http.MethodPut, "/bookings/"+b.ID.String()+"/cancel", alice, nil,
	)
	gts.Require().Equal(http.StatusOK, status, env.Message)
	gts.decode(env, &b)
	gts.Equal(model.BookingCancelled, b.Status)
	gts.Equal(2, gts.Store.Car(car.ID).Stock)

	status, env = gts.do(
		http.MethodPut, "/bookings/"+b.ID.String()+"/cancel", alice, nil,
	)
	gts.Equal(http.StatusBadRequest, status, "cancelled twice")
	gts.Equal("invalid_transition", env.Code)

	status, _ = gts.do(http.MethodPost, "/bookings", bob, req)
	gts.Equal(http.StatusCreated, status, "cancelled bookings free dates")
}

func (gts *GinTestSuite) TestBookingChargesAdditionalServices() {
	admin := gts.admin()
	status, env := gts.do(http.MethodPost, "/services", admin, map[string]any{
		"name": "GPS", "price": "10", "type": "equipment",
	})
	gts.Require().Equal(http.StatusCreated, status, env.Message)
	var gps model.AdditionalService
	gts.decode(env, &gps)
	car := gts.Store.AddCar(model.Car{
		Name: "Clio", Brand: "Renault", Model: "V", Year: 2021,
		PricePerDay: decimal.NewFromInt(50), Stock: 2, Availability: true,
	})
	token, _ := gts.signUp("erin@crweb.test")

	status, env = gts.do(http.MethodPost, "/bookings", token, map[string]any{
		"vehicleId":          car.ID.String(),
		"startDate":          dayAfter(1),
		"endDate":            dayAfter(3),
		"additionalServices": []string{gps.ID.String()},
	})
	gts.Require().Equal(http.StatusCreated, status, env.Message)
	var b model.Booking
	gts.decode(env, &b)
	gts.True(decimal.NewFromInt(120).Equal(b.TotalAmount), b.TotalAmount)
	gts.Require().Len(b.Services, 1)
	gts.Equal(gps.ID, b.Services[0].ServiceID)

	status, env = gts.do(http.MethodPost, "/bookings", token, map[string]any{
		"vehicleId":          car.ID.String(),
		"startDate":          dayAfter(5),
		"endDate":            dayAfter(7),
		"additionalServices": []string{"gps"},
	})
	gts.Equal(http.StatusBadRequest, status)
	gts.Equal("validation_failed", env.Code)
	gts.Equal(1, gts.Store.Car(car.ID).Stock)
}

func (gts *GinTestSuite) TestValidationFields() {
	token, _ := gts.signUp("val@crweb.test")
	status, env := gts.do(http.MethodPost, "/bookings", token, map[string]any{
		"vehicleId": "not-a-uuid",
		"endDate":   dayAfter(2),
	})
	gts.Equal(http.StatusBadRequest, status)
	gts.Equal("validation_failed", env.Code)
	gts.Contains(env.Fields, "vehicleId")
	gts.Contains(env.Fields, "startDate")
	gts.NotContains(env.Fields, "endDate")

	status, env = gts.do(http.MethodPost, "/bookings", token, map[string]any{
		"vehicleId": uuid.NewString(),
		"startDate": "tomorrow",
		"endDate":   dayAfter(2),
	})
	gts.Equal(http.StatusBadRequest, status)
	gts.Contains(env.Fields, "startDate")

	status, env = gts.do(http.MethodGet, "/cars/42", "", nil)
	gts.Equal(http.StatusBadRequest, status)
	gts.Contains(env.Fields, "id")

	status, env = gts.do(http.MethodGet, "/cars/"+uuid.NewString(), "", nil)
	gts.Equal(http.StatusNotFound, status)
	gts.Equal("not_found", env.Code)
}

func (gts *GinTestSuite) TestCarsManagement() {
	user, _ := gts.signUp("carol@crweb.test")
	admin := gts.admin()
	car := map[string]any{
		"name": "Model 3", "brand": "Tesla", "model": "LR", "year": 2023,
		"pricePerDay": "95.50", "stock": 1,
		"location": map[string]any{"lat": 35.7, "lon": 51.4},
	}
	status, env := gts.do(http.MethodPost, "/cars", user, car)
	gts.Equal(http.StatusForbidden, status)

	status, env = gts.do(http.MethodPost, "/cars", admin, car)
	gts.Require().Equal(http.StatusCreated, status, env.Message)
	var created model.Car
	gts.decode(env, &created)
	gts.True(created.Availability)
	gts.Equal("95.5", created.PricePerDay.String())

	status, env = gts.do(http.MethodGet, "/cars", "", nil)
	gts.Require().Equal(http.StatusOK, status)
	var list []model.Car
	gts.decode(env, &list)
	gts.Len(list, 1)

	path := "/cars/" + created.ID.String() + "/toggle-availability"
	status, env = gts.do(http.MethodPatch, path, admin, nil)
	gts.Require().Equal(http.StatusOK, status, env.Message)
	status, env = gts.do(http.MethodGet, "/cars", "", nil)
	gts.Require().Equal(http.StatusOK, status)
	gts.JSONEq("[]", string(env.Data), "unavailable cars are hidden")

	car["pricePerDay"] = "0"
	status, env = gts.do(http.MethodPost, "/cars", admin, car)
	gts.Equal(http.StatusBadRequest, status)
	gts.Contains(env.Fields, "pricePerDay")
}

func (gts *GinTestSuite) TestMetricsEndpoint() {
	car := gts.addCar(1)
	token, _ := gts.signUp("dave@crweb.test")
	status, _ := gts.do(http.MethodPost, "/bookings", token, map[string]any{
		"vehicleId": car.ID.String(),
		"startDate": dayAfter(1),
		"endDate":   dayAfter(2),
	})
	gts.Require().Equal(http.StatusCreated, status)

	w := httptest.NewRecorder()
	gts.Gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gts.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	gts.Contains(body, `crweb_bookings_created_total{result="created"} 1`)
	gts.True(strings.Contains(
		body, `route="/api/crweb/v1/bookings"`,
	), "request durations are labeled by route patterns")
}
