package arena

import (
	"context"
	"errors"
	"math"
	"sync"
)

// highSource forces every draw to its maximum: accuracy-100 moves
// still hit but crits never land. Safe with IntN, the max draw never
// triggers rejection resampling.
type highSource struct{}

func (highSource) Uint64() uint64 {
	return math.MaxUint64
}

// scriptSource replays a fixed sequence of draws, then behaves like
// highSource. Lets a test pin individual rolls (accuracy, then crit,
// then status) without pinning the rest.
type scriptSource struct {
	draws []uint64
	next  int
}

func (s *scriptSource) Uint64() uint64 {
	if s.next >= len(s.draws) {
		return math.MaxUint64
	}

	draw := s.draws[s.next]
	s.next++

	return draw
}

func testMoves() map[string]Move {
	return map[string]Move{
		"strike": {
			ID: "strike", Name: "Strike", Type: "normal",
			Power: 50, Accuracy: 100, PP: 30, Category: DAMAGETYPE_DAMAGE,
		},
		"wild-swing": {
			ID: "wild-swing", Name: "Wild Swing", Type: "normal",
			Power: 80, Accuracy: 50, PP: 20, Category: DAMAGETYPE_DAMAGE,
		},
		"hopeless-lunge": {
			ID: "hopeless-lunge", Name: "Hopeless Lunge", Type: "normal",
			Power: 60, Accuracy: 0, PP: 20, Category: DAMAGETYPE_DAMAGE,
		},
		"first-strike": {
			ID: "first-strike", Name: "First Strike", Type: "normal",
			Power: 40, Accuracy: 100, PP: 30, Priority: 4, Category: DAMAGETYPE_DAMAGE,
		},
		"stun-bolt": {
			ID: "stun-bolt", Name: "Stun Bolt", Type: "electric",
			Accuracy: 100, PP: 20, Category: DAMAGETYPE_STATUS,
			StatusEffects: map[string]int{"paralyze": 100},
		},
		"searing-touch": {
			ID: "searing-touch", Name: "Searing Touch", Type: "fire",
			Power: 10, Accuracy: 100, PP: 20, Category: DAMAGETYPE_DAMAGE,
			StatusEffects: map[string]int{"burn": 100},
		},
		"venom-sting": {
			ID: "venom-sting", Name: "Venom Sting", Type: "poison",
			Power: 10, Accuracy: 100, PP: 20, Category: DAMAGETYPE_DAMAGE,
			StatusEffects: map[string]int{"poison": 100},
		},
		"staggering-blow": {
			ID: "staggering-blow", Name: "Staggering Blow", Type: "normal",
			Power: 10, Accuracy: 100, PP: 20, Category: DAMAGETYPE_DAMAGE,
			FlinchChance: 100,
		},
		"sharpen": {
			ID: "sharpen", Name: "Sharpen", Type: "normal",
			Accuracy: 100, PP: 30, Category: DAMAGETYPE_STATUS,
			UserStatChanges: map[string]int{"attack": 2},
		},
		"menace": {
			ID: "menace", Name: "Menace", Type: "normal",
			Accuracy: 100, PP: 30, Category: DAMAGETYPE_STATUS,
			OpponentStatChanges: map[string]int{"attack": -1},
		},
	}
}

func testPools() map[string]MovePool {
	return map[string]MovePool{
		"dummy": {
			SpeciesID: "dummy",
			Moves: []PoolMove{
				{MoveID: "strike", MinLevel: 1},
				{MoveID: "wild-swing", MinLevel: 1},
				{MoveID: "first-strike", MinLevel: 5},
				{MoveID: "stun-bolt", MinLevel: 9},
				{MoveID: "sharpen", MinLevel: 12},
			},
		},
	}
}

func testCatalog() *Catalog {
	catalog := &Catalog{}
	catalog.tables.Store(&catalogTables{moves: testMoves(), pools: testPools()})

	return catalog
}

func testRoster(playerID string, stats BaseStats) []RosterEntry {
	return []RosterEntry{{
		PokemonID: playerID + "-poke",
		Name:      "dummy",
		Level:     10,
		Types:     []string{TYPENAME_FLYING},
		Moveset: []string{
			"strike", "wild-swing", "hopeless-lunge", "first-strike",
			"stun-bolt", "searing-touch", "venom-sting", "staggering-blow",
			"sharpen", "menace",
		},
		Stats: stats,
	}}
}

func testPlayer(id string, stats BaseStats) *PlayerState {
	player := NewPlayerState(id, id, 0, RANK_BRONZE, testRoster(id, stats))
	player.OnFieldID = id + "-poke"

	return player
}

func testBattle(a, b *PlayerState) *Battle {
	battle := newBattle()
	battle.ID = "test-battle"
	battle.Status = BATTLE_INPROGRESS
	battle.seat(a)
	battle.seat(b)

	return battle
}

type fixedRosters map[string][]RosterEntry

func (f fixedRosters) Roster(_ context.Context, playerID string) ([]RosterEntry, error) {
	roster, ok := f[playerID]
	if !ok {
		return nil, errors.New("no roster for player")
	}

	return roster, nil
}

// recordingRatings records every winner/loser pair it is asked to
// persist atomically.
type recordingRatings struct {
	mu      sync.Mutex
	updates [][2]RatingUpdate
}

func (r *recordingRatings) UpdateRatings(_ context.Context, winner, loser RatingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, [2]RatingUpdate{winner, loser})

	return nil
}

var errRatingsDown = errors.New("ratings backend unavailable")

type failingRatings struct{}

func (failingRatings) UpdateRatings(context.Context, RatingUpdate, RatingUpdate) error {
	return errRatingsDown
}

type recordingBroadcaster struct {
	events []Event
}

func (r *recordingBroadcaster) Broadcast(_ string, event Event) {
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) ofType(eventType string) []Event {
	matching := make([]Event, 0)
	for _, event := range r.events {
		if event.EventType() == eventType {
			matching = append(matching, event)
		}
	}

	return matching
}
