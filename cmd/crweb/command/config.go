// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration settings",
	Long: `Load the configuration file (expanding the environment variables
and filling the defaults) and print the effective settings as YAML.
Secrets, such as the JWT key and Redis password, are redacted.`,
	RunE: printConfig,
	Args: cobra.NoArgs,
}

func printConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	out, err := c.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
}
