// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// passFiles are the pgpass files of a pass-dir. The current file is
// used for connecting, while the renewed one holds the passwords which
// are being set by an ongoing (or interrupted) renewal.
type passFiles struct {
	current string
	renewed string
}

func (pf passFiles) writeRenewed(content string) error {
	if err := os.WriteFile(pf.renewed, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing %q file: %w", pf.renewed, err)
	}
	return nil
}

func (pf passFiles) promote() error {
	if err := os.Rename(pf.renewed, pf.current); err != nil {
		return fmt.Errorf("promoting %q: %w", pf.renewed, err)
	}
	return nil
}

// lookupPassword returns the rest of the first line of the path pgpass
// file which starts with prefix. Blank lines and # comments are skipped.
func lookupPassword(path, prefix string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if pass, ok := strings.CutPrefix(line, prefix); ok && pass != "" {
			return pass, nil
		}
	}
	return "", errors.New("no matching password line")
}

// randomPassword returns 128 random bits in unpadded base64.
func randomPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}
