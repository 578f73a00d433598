// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/shopspring/decimal"

// Quote computes the total amount of renting a car with pricePerDay
// daily rate for the given number of days, including the given
// services which are charged per day too.
func Quote(
	pricePerDay decimal.Decimal, services []BookedService, days int,
) decimal.Decimal {
	d := decimal.NewFromInt(int64(days))
	total := pricePerDay.Mul(d)
	for _, s := range services {
		total = total.Add(s.Price.Mul(d))
	}
	return total
}
