// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionsrp provides a Redis reification of the repo.Sessions
// interface, keeping the refresh tokens with their expiration time.
package sessionsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to refresh tokens for making Redis keys.
const DefaultPrefix = "crweb:refresh:"

// Repo stores refresh tokens as Redis string keys which hold the
// owner user identifier and expire by the token TTL.
type Repo struct {
	client redis.UniversalClient
	prefix string
}

// New instantiates a sessions Repo which uses client for storage.
// An empty prefix is replaced by DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repo{client: client, prefix: prefix}
}

func (s *Repo) key(token string) string {
	return s.prefix + token
}

func (s *Repo) Store(
	ctx context.Context, token string, userID uuid.UUID,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return fmt.Errorf("session TTL (%v) is not positive", ttl)
	}
	err := s.client.Set(ctx, s.key(token), userID.String(), ttl).Err()
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Take fetches and deletes token using GETDEL, so concurrent refresh
// requests with the same token cannot both succeed.
func (s *Repo) Take(ctx context.Context, token string) (uuid.UUID, error) {
	v, err := s.client.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, cerr.Authentication(
			errors.New("refresh token is invalid or expired"),
		)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("taking session: %w", err)
	}
	userID, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed session value: %w", err)
	}
	return userID, nil
}

func (s *Repo) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// Ping checks the Redis connectivity.
func (s *Repo) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}
