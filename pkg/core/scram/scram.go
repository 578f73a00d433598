// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram declares the password hashing expectations of the use
// cases. Two kinds of secrets are hashed with it: the passwords of the
// crweb users (stored in the users table and verified on login) and
// the passwords of the database roles (sent in ALTER/CREATE ROLE
// statements by the migrationuc package, so plaintext passwords never
// reach the server logs).
//
// Only the SCRAM stored format is needed here; the challenge/response
// conversation is handled by PostgreSQL and its driver. The adapter
// layer provides the implementations.
package scram

// Hasher computes and checks SCRAM verifiers for one hash function
// (e.g., SHA-256). The user name does not affect the stored and server
// keys, so it is not asked for.
type Hasher interface {
	// Hash derives a verifier of pass which has this format:
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// pass is normalized with SASLprep (RFC 4013) and must not be
	// empty. salt is a base64 string; an empty salt is replaced by
	// random bytes. iters must be at least 4096.
	Hash(pass, salt string, iters int) (string, error)

	// Verify reports if pass matches hashed. A wrong password gives
	// false and a nil error, while a malformed hashed gives an error.
	Verify(pass, hashed string) (bool, error)
}
