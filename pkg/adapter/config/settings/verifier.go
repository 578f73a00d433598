// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting which violated one of its bounds.
// Value is the configured value and Bound is the violated bound which
// replaced it. If InvalidRange is true, the bounds themselves were
// inconsistent and neither Value nor Bound is set.
type OutOfRangeError[T cmp.Ordered] struct {
	Value        T
	Bound        T
	Below        bool
	InvalidRange bool
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.InvalidRange:
		return "min is greater than max"
	case e.Below:
		return fmt.Sprintf("%v is less than the min (%v)", e.Value, e.Bound)
	default:
		return fmt.Sprintf("%v is greater than the max (%v)", e.Value, e.Bound)
	}
}

// VerifyRange clamps *value into [minb, maxb] and returns a non-nil
// error if it had to. A nil *value or a nil bound is not checked.
// Callers may log the error and keep the clamped value, or reject it.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	if minb != nil && maxb != nil && *minb > *maxb {
		return &OutOfRangeError[T]{InvalidRange: true}
	}
	if *value == nil {
		return nil
	}
	v := **value
	if minb != nil && v < *minb {
		**value = *minb
		return &OutOfRangeError[T]{Value: v, Bound: *minb, Below: true}
	}
	if maxb != nil && v > *maxb {
		**value = *maxb
		return &OutOfRangeError[T]{Value: v, Bound: *maxb}
	}
	return nil
}
