package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

var (
	ErrMoveNotFound     = errors.New("move not found")
	ErrMovePoolNotFound = errors.New("move pool not found")
)

// Move is a single immutable catalog entry. Moves are loaded once at
// startup and shared by reference; nothing in the engine mutates them.
type Move struct {
	ID       string `json:"-"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"power"`
	Accuracy int    `json:"accuracy"`
	PP       int    `json:"pp"`
	Priority int    `json:"priority"`
	Category string `json:"category"`

	// chance (0-100) per status condition name; absent means the move
	// cannot inflict that condition
	StatusEffects map[string]int `json:"statusEffects,omitempty"`
	FlinchChance  int            `json:"flinchChance,omitempty"`

	// fractions of dealt damage
	Recoil float64 `json:"recoil,omitempty"`
	Heal   float64 `json:"heal,omitempty"`

	// stage deltas per stat name
	UserStatChanges     map[string]int `json:"userStatChanges,omitempty"`
	OpponentStatChanges map[string]int `json:"opponentStatChanges,omitempty"`
}

var statusIDs = map[string]int{
	"paralyze": STATUS_PARA,
	"poison":   STATUS_POISON,
	"burn":     STATUS_BURN,
	"freeze":   STATUS_FROZEN,
	"sleep":    STATUS_SLEEP,
}

type PoolMove struct {
	MoveID   string `json:"moveId"`
	MinLevel int    `json:"minLevel"`
}

// MovePool is the ordered list of moves a species can learn.
type MovePool struct {
	SpeciesID string     `json:"-"`
	Moves     []PoolMove `json:"moves"`
}

type catalogTables struct {
	moves map[string]Move
	pools map[string]MovePool
}

// Catalog owns the static move data. Reload swaps the whole table
// atomically so concurrent readers never observe a half-updated set.
type Catalog struct {
	movesPath string
	poolsPath string

	tables atomic.Pointer[catalogTables]
}

// LoadCatalog reads and validates both data files. Pools referencing
// unknown move ids or holding fewer than four moves are rejected here,
// which is what lets Move treat a miss as a programming error later.
func LoadCatalog(movesPath string, poolsPath string) (*Catalog, error) {
	catalog := &Catalog{
		movesPath: movesPath,
		poolsPath: poolsPath,
	}

	if err := catalog.Reload(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (c *Catalog) Reload() error {
	movesBytes, err := os.ReadFile(c.movesPath)
	if err != nil {
		return fmt.Errorf("read moves file: %w", err)
	}

	poolBytes, err := os.ReadFile(c.poolsPath)
	if err != nil {
		return fmt.Errorf("read move pool file: %w", err)
	}

	moves := make(map[string]Move)
	if err := json.Unmarshal(movesBytes, &moves); err != nil {
		return fmt.Errorf("parse moves file: %w", err)
	}

	pools := make(map[string]MovePool)
	if err := json.Unmarshal(poolBytes, &pools); err != nil {
		return fmt.Errorf("parse move pool file: %w", err)
	}

	for id, move := range moves {
		move.ID = id

		for statusName := range move.StatusEffects {
			if _, ok := statusIDs[statusName]; !ok {
				return fmt.Errorf("move %q: unknown status condition %q", id, statusName)
			}
		}

		moves[id] = move
	}

	for speciesID, pool := range pools {
		pool.SpeciesID = speciesID

		if len(pool.Moves) < MOVESET_SIZE {
			return fmt.Errorf("move pool for %q has %d moves, needs at least %d", speciesID, len(pool.Moves), MOVESET_SIZE)
		}

		for _, poolMove := range pool.Moves {
			if _, ok := moves[poolMove.MoveID]; !ok {
				return fmt.Errorf("move pool for %q references unknown move %q", speciesID, poolMove.MoveID)
			}
		}

		pools[speciesID] = pool
	}

	c.tables.Store(&catalogTables{moves: moves, pools: pools})

	internalLogger.WithName("catalog").Info("catalog loaded", "moves", len(moves), "pools", len(pools))

	return nil
}

// Watch reloads the catalog whenever either data file changes, until
// ctx is cancelled. A reload failure keeps the previous table and is
// only logged; the data on disk may be mid-write.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// watch the parent directories, editors often replace files
	// instead of writing in place
	dirs := map[string]struct{}{
		filepath.Dir(c.movesPath): {},
		filepath.Dir(c.poolsPath): {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		defer watcher.Close()

		log := internalLogger.WithName("catalog")

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				if event.Name != c.movesPath && event.Name != c.poolsPath {
					continue
				}

				if err := c.Reload(); err != nil {
					log.Error(err, "catalog reload failed, keeping previous tables", "file", event.Name)
				} else {
					log.Info("catalog reloaded", "file", event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.Error(err, "catalog watch error")
			}
		}
	}()

	return nil
}

// Move looks up a move by id. Unknown ids are a programming error:
// every id reaching the engine was validated against the catalog at
// data-load time.
func (c *Catalog) Move(id string) (Move, error) {
	move, ok := c.tables.Load().moves[id]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrMoveNotFound, id)
	}

	return move, nil
}

func (c *Catalog) MovePool(speciesID string) (MovePool, error) {
	pool, ok := c.tables.Load().pools[speciesID]
	if !ok {
		return MovePool{}, fmt.Errorf("%w: %q", ErrMovePoolNotFound, speciesID)
	}

	return pool, nil
}

// RandomMoveset draws four distinct move ids uniformly from the
// species' pool, redrawing on duplicates. Load validation guarantees
// at least four moves per pool so the loop terminates.
func (c *Catalog) RandomMoveset(speciesID string, rng *rand.Rand) ([]string, error) {
	pool, err := c.MovePool(speciesID)
	if err != nil {
		return nil, err
	}

	moveset := make([]string, 0, MOVESET_SIZE)
	picked := make(map[string]struct{}, MOVESET_SIZE)

	for len(moveset) < MOVESET_SIZE {
		candidate := pool.Moves[rng.IntN(len(pool.Moves))].MoveID
		if _, dup := picked[candidate]; dup {
			continue
		}

		picked[candidate] = struct{}{}
		moveset = append(moveset, candidate)
	}

	return moveset, nil
}
