// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsuc

// Recorder receives the outcomes of the booking operations.
// Implementations must be safe for concurrent use.
type Recorder interface {
	BookingCreated(ok bool)
	BookingCancelled(stockRestored bool)
	BookingDeleted(stockRestored bool)
	BookingDecision(decision string)
	BookingsCompleted(n int64)
}

// NopRecorder is a Recorder which discards everything.
type NopRecorder struct{}

func (NopRecorder) BookingCreated(bool)     {}
func (NopRecorder) BookingCancelled(bool)   {}
func (NopRecorder) BookingDeleted(bool)     {}
func (NopRecorder) BookingDecision(string)  {}
func (NopRecorder) BookingsCompleted(int64) {}
