/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is a validated, ordered scenario collection for one domain.
type Pack struct {
	Domain    string     `yaml:"domain" json:"domain"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// LoadPack reads a YAML scenario pack and validates every record.
// Duplicate scenario IDs are rejected so each evaluate call can produce
// exactly one result per scenario.
func LoadPack(r io.Reader) (*Pack, error) {
	var pack Pack
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil {
		return nil, fmt.Errorf("decoding scenario pack: %w", err)
	}

	if len(pack.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario pack %q contains no scenarios", pack.Domain)
	}

	seen := make(map[string]struct{}, len(pack.Scenarios))
	for i := range pack.Scenarios {
		s := &pack.Scenarios[i]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("scenario pack %q: %w", pack.Domain, err)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("scenario pack %q: duplicate scenario id %q", pack.Domain, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	return &pack, nil
}

// LoadPackFile loads a scenario pack from a file path.
func LoadPackFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario pack: %w", err)
	}
	defer f.Close()
	return LoadPack(f)
}
