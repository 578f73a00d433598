// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"log/slog"

	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/spf13/cobra"
)

var completeExpiredCmd = &cobra.Command{
	Use:   "complete-expired",
	Short: "Complete the bookings which their rental period is over",
	Long: `Mark the active bookings which their end date has passed as
completed, once. The web server does the same periodically if the
usecases.bookings.completion-schedule setting is not empty, so this
command is useful when the schedule is disabled, e.g., for running it
by an external scheduler.`,
	RunE: completeExpired,
	Args: cobra.NoArgs,
}

func completeExpired(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	uc, err := c.NewBookingsUseCase(routes.NewDependencies(p, nil, nil))
	if err != nil {
		return fmt.Errorf("creating bookings use case: %w", err)
	}
	n, err := uc.CompleteExpired(ctx)
	if err != nil {
		return err
	}
	log.Info(ctx, "completion is done", slog.Int64("count", n))
	return nil
}

func init() {
	dbCmd.AddCommand(completeExpiredCmd)
}
