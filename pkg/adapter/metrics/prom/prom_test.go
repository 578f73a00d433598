// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package prom_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/metrics/prom"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ bookingsuc.Recorder = (*prom.Metrics)(nil)
	_ reviewsuc.Recorder  = (*prom.Metrics)(nil)
)

func TestRecorders(t *testing.T) {
	m := prom.New(false)
	m.BookingCreated(true)
	m.BookingCreated(true)
	m.BookingCreated(false)
	m.BookingCancelled(true)
	m.BookingDeleted(false)
	m.BookingDecision("approve")
	m.BookingsCompleted(3)
	m.ReviewWritten("created")
	m.ObserveRequest(http.MethodGet, "/api/crweb/v1/cars", 200, time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	n, err = testutil.GatherAndCount(
		m.Registry(), "crweb_bookings_completed_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHandler(t *testing.T) {
	m := prom.New(false)
	m.BookingsCompleted(2)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "crweb_bookings_completed_total 2")
}
