// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/google/uuid"
)

// Valuer wraps a slog.LogValuer, so it is resolved lazily by the
// handler (e.g., a settings value or a config section).
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err formats value with its Error method. A nil value is logged as
// "no-error" instead of being dropped.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// UUID logs the hyphenated form of a user, car, or booking id.
func UUID(key string, id uuid.UUID) slog.Attr {
	return slog.String(key, id.String())
}
