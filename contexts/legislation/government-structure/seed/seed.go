// Package seed carries the embedded government structure tables: chamber
// sizes, quorum fractions, and per-state delegations.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"statecraft/contexts/legislation/government-structure/domain/entities"
)

//go:embed government.yaml
var governmentYAML []byte

type document struct {
	Chambers []struct {
		ID             string  `yaml:"id"`
		SeatsTotal     int     `yaml:"seats_total"`
		QuorumFraction float64 `yaml:"quorum_fraction"`
	} `yaml:"chambers"`
	Delegations []struct {
		State       string `yaml:"state"`
		HouseSeats  int    `yaml:"house_seats"`
		SenateSeats int    `yaml:"senate_seats"`
		Voting      bool   `yaml:"voting"`
	} `yaml:"delegations"`
}

// Load parses the embedded tables. The delegation list is validated against
// the chamber totals so a bad edit fails at startup, not mid-tally.
func Load() ([]entities.Chamber, []entities.Delegation, error) {
	var doc document
	if err := yaml.Unmarshal(governmentYAML, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse government seed: %w", err)
	}

	chambers := make([]entities.Chamber, 0, len(doc.Chambers))
	totals := make(map[entities.ChamberID]int, len(doc.Chambers))
	for _, row := range doc.Chambers {
		id := entities.ChamberID(strings.ToLower(strings.TrimSpace(row.ID)))
		chambers = append(chambers, entities.Chamber{
			ID:             id,
			SeatsTotal:     row.SeatsTotal,
			QuorumFraction: row.QuorumFraction,
		})
		totals[id] = row.SeatsTotal
	}

	delegations := make([]entities.Delegation, 0, len(doc.Delegations))
	houseVoting := 0
	senateSeats := 0
	for _, row := range doc.Delegations {
		delegation := entities.Delegation{
			State:       strings.ToUpper(strings.TrimSpace(row.State)),
			HouseSeats:  row.HouseSeats,
			SenateSeats: row.SenateSeats,
			Voting:      row.Voting,
		}
		delegations = append(delegations, delegation)
		if delegation.Voting {
			houseVoting += delegation.HouseSeats
		}
		senateSeats += delegation.SenateSeats
	}

	if expected := totals[entities.ChamberHouse]; houseVoting != expected {
		return nil, nil, fmt.Errorf("government seed: house voting seats %d, chamber declares %d", houseVoting, expected)
	}
	if expected := totals[entities.ChamberSenate]; senateSeats != expected {
		return nil, nil, fmt.Errorf("government seed: senate seats %d, chamber declares %d", senateSeats, expected)
	}
	return chambers, delegations, nil
}
