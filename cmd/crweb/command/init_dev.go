// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development data",
	Long: `Initialize database contents with development suitable data, i.e.,
a few sample cars and additional services, for the database
schema version which is specified in the configuration file. The
database connection information are also read from the config file.
No changes will be made to the config file itself.
` + credsRenewalMessage + `

If database schema version X.Y.Z is asked in the config file, relevant
tables will be created in the crwebX schema. Any existing crwebX schema
is dropped beforehand, so all of its contents are lost.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDev(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	muc := migrationuc.NewInitDB(c)
	if err = muc.InitDev(ctx); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initDevCmd)
}
