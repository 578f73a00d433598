// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the version-independent helpers which are
// shared by the configuration settings major versions, such as the
// human-readable Duration type, defaults initializers for optional
// (pointer) settings, and the range verifier of the bounded settings.
package settings

// Nil2Zero overwrites the (*t) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the zero value of T type.
// If the (*t) pointer was not nil, Nil2Zero will perform no action.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}

// OverwriteNil overwrites the (*dst) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the def value. Non-nil (*dst) pointers are kept intact, so
// explicitly configured settings win over their defaults.
func OverwriteNil[T any](dst **T, def T) {
	if (*dst) != nil {
		return
	}
	(*dst) = &def
}
