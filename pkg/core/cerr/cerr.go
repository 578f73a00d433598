// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the core errors which carry enough information
// for the adapters layer to report them to end-users. Each Error wraps
// a descriptive error, the HTTP status code which should be reported,
// and a machine-readable Code. Use cases create them using one of the
// constructor functions and may refine their Code using WithCode.
// Any other error which reaches the adapters layer is an internal one.
package cerr

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error identifier which is reported next
// to the human-readable message, so clients do not need to parse it.
type Code string

// Known error codes. Generic codes are assigned by the constructors
// while the more specific ones are set by use cases with WithCode.
const (
	CodeValidation        Code = "validation_failed"
	CodeUnauthenticated   Code = "unauthenticated"
	CodeForbidden         Code = "forbidden"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeInternal          Code = "internal"
	CodeDoubleBooking     Code = "double_booking"
	CodeOutOfStock        Code = "out_of_stock"
	CodeCarUnavailable    Code = "car_unavailable"
	CodeDuplicateReview   Code = "duplicate_review"
	CodeInvalidTransition Code = "invalid_transition"
)

type Error struct {
	Err            error
	HTTPStatusCode int
	Code           Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d %s] %s", e.HTTPStatusCode, e.Code, e.Err)
}

// WithCode replaces the generic code of `e` with the more specific
// `c` code and returns `e` itself, so it may be chained right after
// one of the constructors.
func (e *Error) WithCode(c Code) *Error {
	e.Code = c
	return e
}

func BadRequest(err error) *Error {
	return newError(err, http.StatusBadRequest, CodeValidation)
}

func Authentication(err error) *Error {
	return newError(err, http.StatusUnauthorized, CodeUnauthenticated)
}

func Authorization(err error) *Error {
	return newError(err, http.StatusForbidden, CodeForbidden)
}

func NotFound(err error) *Error {
	return newError(err, http.StatusNotFound, CodeNotFound)
}

func Conflict(err error) *Error {
	return newError(err, http.StatusConflict, CodeConflict)
}

func Internal(err error) *Error {
	return newError(err, http.StatusInternalServerError, CodeInternal)
}

func newError(err error, status int, c Code) *Error {
	return &Error{Err: err, HTTPStatusCode: status, Code: c}
}
