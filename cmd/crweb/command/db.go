// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import "github.com/spf13/cobra"

const credsRenewalMessage = `
The admin role password is read from the .pgpass file in the pass-dir
directory (see the database settings). The normal role is created if
it does not exist and passwords of both roles are renewed. New passwords
are written to the .pgpass.new file before changing them in the DBMS
and it replaces the .pgpass file after a successful commit, so an
interrupted run can be repeated safely.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. Since a production database has
no users, create-admin may be used for creating the first admin user.`,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
