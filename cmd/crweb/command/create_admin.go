// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
	"github.com/spf13/cobra"
)

var admin struct {
	name, email, phone string
	passwordEnv        string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with the admin role",
	Long: `Create a user with the admin role in an initialized database.
The REST API only registers users with the user role, so this command
is used for creating the administrators who may manage the cars and
additional services, and approve or reject the bookings.
The password is read from an environment variable (CRWEB_ADMIN_PASSWORD
by default), so it is not exposed in the processes list.`,
	RunE: createAdmin,
	Args: cobra.NoArgs,
}

func createAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pass, ok := os.LookupEnv(admin.passwordEnv)
	if !ok {
		return fmt.Errorf("%s environment variable is not set",
			admin.passwordEnv)
	}
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	// refresh tokens are not issued, so no sessions repo is required
	uc, err := c.NewAuthUseCase(routes.NewDependencies(p, nil, nil))
	if err != nil {
		return fmt.Errorf("creating auth use case: %w", err)
	}
	u, err := uc.CreateAdmin(ctx, authuc.Registration{
		Name:     admin.name,
		Email:    admin.email,
		Phone:    admin.phone,
		Password: pass,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	log.Info(
		ctx, "admin is created",
		log.UUID("user", u.ID), slog.String("email", u.Email),
	)
	return nil
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&admin.name, "name", "", "full name of the admin")
	f.StringVar(&admin.email, "email", "", "login email of the admin")
	f.StringVar(&admin.phone, "phone", "", "optional phone number")
	f.StringVar(
		&admin.passwordEnv, "password-env", "CRWEB_ADMIN_PASSWORD",
		"name of the environment variable holding the password",
	)
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")
	dbCmd.AddCommand(createAdminCmd)
}
