// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram implements the core scram.Hasher interface on top of
// the github.com/xdg-go/scram module. The SHA256 mechanism hashes the
// crweb user passwords and the database role passwords. SHA1 may be
// selected for the database roles by the auth-method setting.
package scram

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIterations is the least accepted PBKDF2 iterations count.
const MinIterations = 4096

// Mechanism is a SCRAM family member with a fixed hash function.
type Mechanism struct {
	gen     scram.HashGeneratorFcn
	saltLen int // bytes
	name    string
}

// SHA1 returns the SCRAM-SHA-1 mechanism.
func SHA1() *Mechanism {
	return &Mechanism{gen: scram.SHA1, saltLen: 20, name: "SCRAM-SHA-1"}
}

// SHA256 returns the SCRAM-SHA-256 mechanism.
func SHA256() *Mechanism {
	return &Mechanism{gen: scram.SHA256, saltLen: 32, name: "SCRAM-SHA-256"}
}

// Name returns the mechanism name as it appears in verifiers.
func (m *Mechanism) Name() string {
	return m.name
}

// verifier is the parsed form of a stored SCRAM password.
type verifier struct {
	name      string
	iters     int
	salt      string // base64
	storedKey []byte
	serverKey []byte
}

func (v verifier) String() string {
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", v.name, v.iters, v.salt,
		base64.StdEncoding.EncodeToString(v.storedKey),
		base64.StdEncoding.EncodeToString(v.serverKey),
	)
}

func (m *Mechanism) parse(hashed string) (verifier, error) {
	name, rest, ok := strings.Cut(hashed, "$")
	if !ok || name != m.name {
		return verifier{}, fmt.Errorf("not a %s hash string", m.name)
	}
	params, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return verifier{}, errors.New("missing keys in hash string")
	}
	itersStr, salt, ok := strings.Cut(params, ":")
	if !ok {
		return verifier{}, errors.New("missing salt in hash string")
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return verifier{}, fmt.Errorf("parsing iterations: %w", err)
	}
	if !strings.Contains(keys, ":") {
		return verifier{}, errors.New("missing server key in hash string")
	}
	return verifier{name: name, iters: iters, salt: salt}, nil
}

// Hash derives the SCRAM verifier of pass. An empty salt is replaced
// by random bytes of the hash output size.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIterations:
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	if salt == "" {
		b := make([]byte, m.saltLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	v, err := m.derive(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	return v.String(), nil
}

// Verify recomputes the verifier of pass with the salt and iterations
// of hashed and compares both of them in constant time.
func (m *Mechanism) Verify(pass, hashed string) (bool, error) {
	v, err := m.parse(hashed)
	if err != nil {
		return false, err
	}
	if pass == "" {
		return false, nil
	}
	got, err := m.Hash(pass, v.salt, v.iters)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(hashed)) == 1, nil
}

func (m *Mechanism) derive(pass, salt string, iters int) (verifier, error) {
	// user and authzID do not contribute to the keys
	c, err := m.gen.NewClient("crweb", pass, "")
	if err != nil {
		return verifier{}, fmt.Errorf("creating SCRAM client: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return verifier{}, fmt.Errorf("decoding base64 salt: %w", err)
	}
	sc := c.WithMinIterations(iters).GetStoredCredentials(scram.KeyFactors{
		Salt:  string(raw),
		Iters: iters,
	})
	return verifier{
		name:      m.name,
		iters:     iters,
		salt:      salt,
		storedKey: sc.StoredKey,
		serverKey: sc.ServerKey,
	}, nil
}
