// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Seed selects the rows which are inserted after the tables creation.
type Seed string

const (
	// SeedDev inserts sample cars, services, and users.
	SeedDev Seed = "dev"
	// SeedProd leaves the tables empty.
	SeedProd Seed = "prod"
)

// InitDBUseCase (re)creates the crweb database schema.
type InitDBUseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase which finds the connection
// information and the expected schema version in ss.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd prepares an empty schema and creates the tables without
// any rows. The first admin may be added by the create-admin command.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.Init(ctx, SeedProd)
}

// InitDev prepares an empty schema, creates the tables, and fills
// them with the sample rows.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.Init(ctx, SeedDev)
}

// Init runs two transactions. The first one uses the admin role in
// order to drop and recreate the crwebN schema, ensure the normal role
// and its privileges, and renew the passwords of both roles (in step
// with the password files, so an interrupted run may be repeated).
// The second one uses the normal role in order to create the tables
// and insert the seed rows.
func (iduc *InitDBUseCase) Init(ctx context.Context, seed Seed) error {
	var fill func(repo.SchemaInitializer, context.Context) error
	switch seed {
	case SeedDev:
		fill = repo.SchemaInitializer.InitDevSchema
	case SeedProd:
		fill = repo.SchemaInitializer.InitProdSchema
	default:
		return fmt.Errorf("unknown seed: %q", seed)
	}
	v := iduc.settings.SchemaVersion()
	sn := SchemaName(v[0])
	if err := iduc.prepare(ctx, sn); err != nil {
		return fmt.Errorf("preparing schema %q: %w", sn, err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			return fill(si, ctx)
		})
	})
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	log.Info(
		ctx, "database schema is initialized",
		slog.String("schema", sn),
		slog.String("version", v.String()),
		slog.String("seed", string(seed)),
	)
	return nil
}

func (iduc *InitDBUseCase) prepare(ctx context.Context, sn string) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			steps := []struct {
				name string
				run  func() error
			}{
				{"dropping schema", func() error {
					return q.DropIfExists(ctx, sn)
				}},
				{"creating schema", func() error {
					return q.CreateSchema(ctx, sn)
				}},
				{"creating normal role", func() error {
					return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
				}},
				{"granting privileges", func() error {
					return q.GrantPrivileges(ctx, sn, repo.NormalRole)
				}},
				{"setting search_path", func() error {
					return q.SetSearchPath(ctx, sn, repo.NormalRole)
				}},
			}
			for _, s := range steps {
				if err := s.run(); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
			}
			var err error
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("renewing passwords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}

// SchemaName returns crwebN for the major version N.
func SchemaName(major uint) string {
	return fmt.Sprintf("crweb%d", major)
}
