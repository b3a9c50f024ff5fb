// Package rosterfs loads player rosters from JSON files on disk. It
// stands in for the pokemon service's caught-pokemon store in
// single-node deployments; players without a saved roster get a
// default team rolled from the move catalog.
package rosterfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pokearena/backend/arena"
)

type Provider struct {
	dir     string
	catalog *arena.Catalog
}

func New(dir string, catalog *arena.Catalog) *Provider {
	return &Provider{dir: dir, catalog: catalog}
}

func (p *Provider) Roster(ctx context.Context, playerID string) ([]arena.RosterEntry, error) {
	path := filepath.Join(p.dir, playerID+".json")

	rosterBytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p.defaultRoster(playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var roster []arena.RosterEntry
	if err := json.Unmarshal(rosterBytes, &roster); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}

	return roster, nil
}

// defaultSpecies are the starter teams handed to players with no saved
// roster.
var defaultSpecies = []struct {
	Name  string
	Types []string
	Stats arena.BaseStats
}{
	{"bulbasaur", []string{"grass", "poison"}, arena.BaseStats{Hp: 105, Attack: 49, Defense: 49, Speed: 45}},
	{"charmander", []string{"fire"}, arena.BaseStats{Hp: 99, Attack: 52, Defense: 43, Speed: 65}},
	{"squirtle", []string{"water"}, arena.BaseStats{Hp: 104, Attack: 48, Defense: 65, Speed: 43}},
}

func (p *Provider) defaultRoster(playerID string) ([]arena.RosterEntry, error) {
	seed := arena.CreateRandomSeed()
	rng := arena.CreateRNG(&seed)

	roster := make([]arena.RosterEntry, 0, len(defaultSpecies))
	for i, species := range defaultSpecies {
		moveset, err := p.catalog.RandomMoveset(species.Name, rng)
		if err != nil {
			return nil, fmt.Errorf("default roster for %s: %w", playerID, err)
		}

		roster = append(roster, arena.RosterEntry{
			PokemonID: fmt.Sprintf("%s-%d", playerID, i),
			Name:      species.Name,
			Level:     5,
			Types:     species.Types,
			Moveset:   moveset,
			Stats:     species.Stats,
		})
	}

	return roster, nil
}
