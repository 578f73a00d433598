// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine and its middlewares, so the
// resources and commands do not need to pick the logging or recovery
// middlewares themselves.
package gin

import (
	"log/slog"
	"time"

	ginslog "github.com/FabienMht/ginslog/logger"
	ginslogrecovery "github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates an Engine which uses the given middlewares.
func New(middlewares ...HandlerFunc) *Engine {
	serdser.Setup()
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// SlogLogger logs the requests using the l structured logger.
func SlogLogger(l *slog.Logger) HandlerFunc {
	return ginslog.New(l)
}

// SlogRecovery recovers from panics, logging them using l.
func SlogRecovery(l *slog.Logger) HandlerFunc {
	return ginslogrecovery.New(l)
}

// RequestObserver records the duration of HTTP requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Observe passes the method, route pattern, status, and duration of
// each request to o.
func Observe(o RequestObserver) HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		o.ObserveRequest(
			c.Request.Method, c.FullPath(), c.Writer.Status(),
			time.Since(start),
		)
	}
}

// ReleaseMode switches gin to its release mode, disabling the
// debugging logs of the routes registration.
func ReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}
