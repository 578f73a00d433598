// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/momeni/car-rental/pkg/adapter/config/settings"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/car-rental/pkg/adapter/hash/scram"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	scrami "github.com/momeni/car-rental/pkg/core/scram"
	"github.com/momeni/car-rental/pkg/core/usecase/migrationuc"
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like crweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix is appended to the admin and crweb role names, so
	// several deployments (or tests) may share one database cluster.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod is scram-sha-256 (the default) or scram-sha-1.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// QueryLogLevel is the GORM logger level, one of silent, error,
	// warn (the default), or info.
	QueryLogLevel string `yaml:"query-log-level,omitempty"`

	// SlowThreshold is the minimum duration of the queries which are
	// logged as slow queries. It defaults to 200ms.
	SlowThreshold *settings.Duration `yaml:"slow-threshold,omitempty"`

	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool connects to the crweb database as role r.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (migrationuc.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"connecting to %s as %q: %w", c.Database.Name, r, err,
		)
	}
	return p, nil
}

// NewSchemaRepo returns the repository which manages schemas and roles.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer returns the tables creator of the configured
// schema version which runs in tx.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return migration.NewInitializer(tx, c.SchemaVersion())
}

// RenewPasswords delegates to the Database.RenewPasswords method.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the database schema version of the versions
// section.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

var _ migrationuc.Settings = (*Config)(nil)

// ConnectionPool connects as r (plus the role suffix). The password is
// taken from the .pgpass file of the pass-dir and then, if connecting
// fails, from the .pgpass.new file which an interrupted RenewPasswords
// may have left behind. A successful .pgpass.new is promoted to .pgpass.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	opts := []postgres.PoolOption{
		postgres.WithQueryLogLevel(d.QueryLogLevel),
	}
	if d.SlowThreshold != nil {
		opts = append(
			opts, postgres.WithSlowThreshold(d.SlowThreshold.Std()),
		)
	}
	pf := d.passFiles()
	var lastErr error
	for i, path := range []string{pf.current, pf.renewed} {
		if i > 0 {
			log.Warn(
				ctx, "connection failed, trying the renewed passwords",
				slog.String("path", path), log.Err("error", lastErr),
			)
		}
		u, err := d.ConnectionURL(r, path)
		if err != nil {
			return nil, fmt.Errorf("using %q pass-file: %w", path, err)
		}
		p, err := postgres.NewPool(ctx, u, opts...)
		if err != nil {
			lastErr = err
			continue
		}
		if i > 0 {
			if err = pf.promote(); err != nil {
				p.Close()
				return nil, err
			}
		}
		return p, nil
	}
	return nil, fmt.Errorf("can use neither pass-file: %w", lastErr)
}

// ConnectionURL builds a postgresql:// URL for r (plus the role
// suffix) with the password of the matching line of the path pgpass
// file (host:port:dbname:role:password).
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	r = r + d.RoleSuffix
	pass, err := lookupPassword(path, d.pgpassPrefix(r))
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewSchemaRepo returns a schemarp.Repo which hashes the passwords as
// the auth-method asks. ValidateAndNormalize must be called first.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates a random password per role, writes them
// into .pgpass.new, and calls change to set them in the database
// (within a transaction which the caller commits). The returned
// finalizer must be called after that commitment; it replaces .pgpass
// with .pgpass.new.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	var buf strings.Builder
	for i, r := range roles {
		if passwords[i], err = randomPassword(); err != nil {
			return nil, fmt.Errorf("password of %q: %w", r, err)
		}
		buf.WriteString(d.pgpassPrefix(r+d.RoleSuffix) + passwords[i] + "\n")
	}
	pf := d.passFiles()
	if err = pf.writeRenewed(buf.String()); err != nil {
		return nil, err
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return pf.promote, nil
}

func (d Database) pgpassPrefix(r repo.Role) string {
	return fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
}

func (d Database) passFiles() passFiles {
	return passFiles{
		current: filepath.Join(d.PassDir, ".pgpass"),
		renewed: filepath.Join(d.PassDir, ".pgpass.new"),
	}
}

// ValidateAndNormalize validates the database settings, fills the
// defaults, and instantiates the passwords hasher.
func (d *Database) ValidateAndNormalize() error {
	switch {
	case d.Host == "":
		return errors.New("host is empty")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("port (%d) is out of range", d.Port)
	case d.Name == "":
		return errors.New("name is empty")
	case d.PassDir == "":
		return errors.New("pass-dir is empty")
	}
	switch am := d.AuthMethod; am {
	case "scram-sha-1":
		d.hasher = scram.SHA1()
	case "":
		d.AuthMethod = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		d.hasher = scram.SHA256()
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	switch d.QueryLogLevel {
	case "":
		d.QueryLogLevel = "warn"
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unknown query log level: %q", d.QueryLogLevel)
	}
	if d.SlowThreshold != nil && *d.SlowThreshold <= 0 {
		return fmt.Errorf("slow threshold (%v) is not positive",
			d.SlowThreshold.Std())
	}
	return nil
}
