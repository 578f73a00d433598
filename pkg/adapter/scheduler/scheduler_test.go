// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context) (int64, error)

func (f completerFunc) CompleteExpired(ctx context.Context) (int64, error) {
	return f(ctx)
}

func TestNewRejectsMalformedSchedule(t *testing.T) {
	_, err := New("every minute", completerFunc(nil), time.Second)
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	s, err := New("@hourly", completerFunc(
		func(context.Context) (int64, error) { return 4, nil },
	), time.Second)
	require.NoError(t, err)
	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestScheduledRuns(t *testing.T) {
	var calls atomic.Int32
	s, err := New("@every 1s", completerFunc(
		func(context.Context) (int64, error) {
			calls.Add(1)
			return 0, errors.New("logged and ignored")
		},
	), time.Second)
	require.NoError(t, err)
	s.Start()
	assert.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
