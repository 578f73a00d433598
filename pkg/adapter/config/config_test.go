// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Setenv("CRWEB_DB_HOST", "db.local")
	t.Setenv("CRWEB_PASS_DIR", t.TempDir())
	t.Setenv("CRWEB_REDIS_ADDR", "redis.local:6379")
	t.Setenv("CRWEB_REDIS_PASSWORD", "")
	t.Setenv("CRWEB_JWT_SECRET", strings.Repeat("k", 40))
}

func TestLoadSampleConfig(t *testing.T) {
	setEnv(t)
	c, err := config.Load("../../../configs/sample-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "db.local", c.Database.Host)
	assert.Equal(t, "redis.local:6379", c.Redis.Addr)
	assert.Equal(t, strings.Repeat("k", 40), c.Auth.JWTSecret)
	assert.Equal(t, "@every 5m", c.Usecases.Bookings.CompletionSchedule)
	assert.True(t, *c.Metrics.Enabled)
}

func TestParseRejectsOtherVersions(t *testing.T) {
	setEnv(t)
	data, err := os.ReadFile("../../../configs/sample-config.yaml")
	require.NoError(t, err)
	doc := strings.Replace(string(data), "database: 1.0.0", "database: 2.0.0", 1)
	_, err = config.Parse([]byte(doc))
	assert.ErrorContains(t, err, "database schema version")

	doc = strings.Replace(string(data), "config: 1.0.0", "config: 1.1.0", 1)
	_, err = config.Parse([]byte(doc))
	assert.ErrorContains(t, err, "config version")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CRWEB_TEST_A=from-file\nCRWEB_TEST_B=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CRWEB_TEST_A", "from-env")
	os.Unsetenv("CRWEB_TEST_B")
	t.Cleanup(func() { os.Unsetenv("CRWEB_TEST_B") })

	require.NoError(t, config.LoadEnv(path))
	assert.Equal(t, "from-env", os.Getenv("CRWEB_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("CRWEB_TEST_B"))

	assert.NoError(t, config.LoadEnv(filepath.Join(dir, "missing.env")))
}
