// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands of the crweb car
// rental backend. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database management actions and the
// "config" sub-command prints the effective settings.
//
//	./crweb [-c /path/of/config.yaml]                # start web server
//	./crweb db init-dev [-c /path/of/config.yaml]
//	./crweb db init-prod [-c /path/of/config.yaml]
//	./crweb db create-admin --name N --email E [-c /path/of/config.yaml]
//	./crweb db complete-expired [-c /path/of/config.yaml]
//	./crweb config [-c /path/of/config.yaml]
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/momeni/car-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

// shutdownTimeout limits the graceful shutdown of the HTTP server and
// the completion job.
const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "crweb",
	Short: "Car rental backend with bookings, reviews, and services",
	Long: `Car rental backend which serves a JSON REST API for the cars
inventory, bookings with their approval and cancellation lifecycle,
cars reviews and ratings, and the additional services which can be
added to a booking.
The PostgreSQL database keeps the main records, while Redis keeps the
refresh tokens. Expired bookings are completed by a cron scheduled job
and Prometheus metrics may be served on the /metrics path.`,
	RunE:         startWebServer,
	SilenceUsage: true,
}

// loadConfig loads the settings from cfgPath and sets up the default
// structured logger accordingly.
func loadConfig() (*cfg1.Config, *slog.Logger, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	l, err := c.Logging.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return c, l, nil
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, l, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info(ctx, "starting crweb", log.Valuer("config", c))
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	rc := c.Redis.NewClient()
	defer rc.Close()
	sessions := c.Redis.NewSessions(rc)
	if err = sessions.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}

	e := c.Gin.NewEngine(l)
	var (
		recorder routes.Recorder
		mh       http.Handler
	)
	if m := c.Metrics.NewMetrics(); m != nil {
		recorder, mh = m, m.Handler()
		e.Use(gin.Observe(m))
	}
	d := routes.NewDependencies(p, sessions, recorder)
	app, err := routes.Register(e, c, d, mh)
	if err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}

	s, err := c.Usecases.Bookings.NewScheduler(app.BookingsUseCase())
	if err != nil {
		return fmt.Errorf("creating completion scheduler: %w", err)
	}
	if s != nil {
		s.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(
				context.Background(), shutdownTimeout,
			)
			defer cancel()
			if err := s.Stop(ctx); err != nil {
				log.Warn(ctx, "stopping scheduler", log.Err("err", err))
			}
		}()
	}
	return serve(ctx, &http.Server{
		Addr:              c.Gin.Addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// serve runs srv until ctx is cancelled and then shuts it down,
// waiting for the in-flight requests at most for shutdownTimeout.
func serve(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", slog.String("addr", srv.Addr))
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return fmt.Errorf("running HTTP server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running HTTP server: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CRWEB_CONFIG environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CRWEB_CONFIG"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
