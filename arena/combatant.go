package arena

import (
	"math"
	"slices"
)

// Stat tracks one of a combatant's battle stats. Base is the value
// snapshotted from the roster at join time, Value is the current
// effective value after stage changes and status penalties, and Stage
// is the accumulated stage counter in the range -6..+6.
type Stat struct {
	Base  int `json:"base"`
	Value int `json:"value"`
	Stage int `json:"stage"`
}

func NewStat(base int) Stat {
	return Stat{Base: base, Value: base, Stage: 0}
}

// ChangeStage moves the stage counter by delta, clamping at the ±6
// boundary, and recomputes Value multiplicatively from its value at
// the time of the change. The returned int is the delta actually
// applied: 0 means the stat was already pinned at the boundary.
func (s *Stat) ChangeStage(delta int) int {
	applied := delta
	if delta > 0 && s.Stage+delta > MAX_STAT_STAGE {
		applied = MAX_STAT_STAGE - s.Stage
	} else if delta < 0 && s.Stage+delta < MIN_STAT_STAGE {
		applied = MIN_STAT_STAGE - s.Stage
	}

	if applied == 0 {
		return 0
	}

	magnitude := applied
	if magnitude < 0 {
		magnitude = -magnitude
	}
	// the multiplier tables top out at 4
	if magnitude > 4 {
		magnitude = 4
	}

	var multiplier float64
	if applied > 0 {
		multiplier = posStageMultipliers[magnitude]
	} else {
		multiplier = negStageMultipliers[magnitude]
	}

	// never below 1: the damage step divides by defense and orders
	// by speed, a zeroed stat breaks both
	s.Value = max(int(math.Floor(float64(s.Value)*multiplier)), 1)
	s.Stage += applied

	return applied
}

// Halve permanently halves the current value. Used by burn (attack)
// and paralysis (speed); not reverted when the status clears.
func (s *Stat) Halve() {
	s.Value = max(s.Value/2, 1)
}

// BaseStats is the stat block a roster entry carries into battle.
type BaseStats struct {
	Hp      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// RosterEntry is one pokemon as returned by the external roster
// provider at join time.
type RosterEntry struct {
	PokemonID string    `json:"pokemonId"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	Types     []string  `json:"types"`
	Moveset   []string  `json:"moveset"`
	Stats     BaseStats `json:"stats"`
}

// Combatant is the mutable per-battle state of a single pokemon.
// Created when a roster is loaded into a session and mutated only by
// the turn resolver.
type Combatant struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
	Level  int      `json:"level"`
	Hp     int      `json:"hp"`
	MaxHp  int      `json:"maxHp"`
	Status int      `json:"status"`

	Attack  Stat `json:"attack"`
	Defense Stat `json:"defense"`
	Speed   Stat `json:"speed"`

	Moves []string `json:"moves"`
}

func NewCombatant(entry RosterEntry) *Combatant {
	return &Combatant{
		ID:      entry.PokemonID,
		Name:    entry.Name,
		Types:   slices.Clone(entry.Types),
		Level:   entry.Level,
		Hp:      entry.Stats.Hp,
		MaxHp:   entry.Stats.Hp,
		Status:  STATUS_NONE,
		Attack:  NewStat(entry.Stats.Attack),
		Defense: NewStat(entry.Stats.Defense),
		Speed:   NewStat(entry.Stats.Speed),
		Moves:   slices.Clone(entry.Moveset),
	}
}

func (c *Combatant) Alive() bool {
	return c.Hp > 0
}

func (c *Combatant) HasType(typeName string) bool {
	return slices.Contains(c.Types, typeName)
}

func (c *Combatant) KnowsMove(moveID string) bool {
	return slices.Contains(c.Moves, moveID)
}

// ApplyStatus sets the condition and applies its immediate stat
// penalty. The caller must have checked that no condition is already
// active; statuses never stack or overwrite.
func (c *Combatant) ApplyStatus(status int) {
	c.Status = status

	switch status {
	case STATUS_BURN:
		c.Attack.Halve()
	case STATUS_PARA:
		c.Speed.Halve()
	}
}

// EffectiveSpeed is the speed used for turn ordering: the current
// modified speed scaled by the chosen move's priority tier.
func (c *Combatant) EffectiveSpeed(priority int) float64 {
	multiplier, ok := priorityMultipliers[priority]
	if !ok {
		multiplier = 1
	}

	return float64(c.Speed.Value) * multiplier
}
