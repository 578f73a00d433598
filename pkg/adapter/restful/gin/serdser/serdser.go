// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resources. Responses are wrapped
// in an Envelope, reporting either the success data or an error with
// its machine-readable code and the invalid request fields.
package serdser

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
)

// Envelope is the body of all JSON responses.
type Envelope struct {
	Status  string              `json:"status"`
	Data    any                 `json:"data,omitempty"`
	Code    cerr.Code           `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var setupOnce sync.Once

// Setup makes the validator report the JSON, form, or uri names of the
// invalid fields instead of their Go names. It may be called multiple
// times.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// Ser writes data in a success Envelope.
func Ser(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: StatusSuccess, Data: data})
}

// SerList writes items in a success Envelope, serializing a nil slice
// as an empty JSON array.
func SerList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	Ser(c, http.StatusOK, items)
}

// SerErr writes err in an error Envelope. The *cerr.Error instances
// determine the status code and the machine-readable code, while other
// errors are logged and reported as internal errors without leaking
// their messages.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if !errors.As(err, &ce) || ce.HTTPStatusCode >= 500 {
		log.Error(
			c, "request failed",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			log.Err("err", err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
			Status:  StatusError,
			Code:    cerr.CodeInternal,
			Message: "internal server error",
		})
		return
	}
	c.AbortWithStatusJSON(ce.HTTPStatusCode, Envelope{
		Status:  StatusError,
		Code:    ce.Code,
		Message: ce.Err.Error(),
	})
}

// SerFields reports the fields validation errors with the 400 status
// code.
func SerFields(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Status:  StatusError,
		Code:    cerr.CodeValidation,
		Message: "request validation failed",
		Fields:  fields,
	})
}

// Bind deserializes the request into req using the b binding, and
// validates it based on the binding struct tags. If it fails, the
// relevant error response is written and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case nil:
		return true
	case *validator.InvalidValidationError:
		SerErr(c, err)
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), fieldMsg(ferr))
		}
		SerFields(c, nameToErrs)
	default:
		SerErr(c, cerr.BadRequest(
			fmt.Errorf("malformed request: %w", err),
		))
	}
	return false
}

func fieldMsg(ferr validator.FieldError) string {
	if p := ferr.Param(); p != "" {
		return fmt.Sprintf("failed on the '%s=%s' rule", ferr.Tag(), p)
	}
	return fmt.Sprintf("failed on the '%s' rule", ferr.Tag())
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

func Assert(
	errs *map[string][]string, ok bool, name string, msgs ...string,
) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// UUIDParam parses the name path parameter. If it is not a UUID, a
// validation error is written and false is returned.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		SerFields(c, map[string][]string{
			name: {"Path param " + name + " is not a UUID."},
		})
		return uuid.Nil, false
	}
	return id, true
}

// BoolQuery reports if the name query parameter is "true" or "1".
func BoolQuery(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// DateLayout is the layout of dates without a time part.
const DateLayout = "2006-01-02"

// ParseDate parses s as a date (like 2024-06-01) or an RFC 3339 time
// stamp, returning the result in UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"%q is neither a date nor an RFC 3339 time", s,
		)
	}
	return t.UTC(), nil
}
