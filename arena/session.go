package arena

import (
	"math/rand/v2"
	"sync"

	"github.com/samber/lo"
)

// PlayerState is one seated player's half of a battle session.
type PlayerState struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Rank     string `json:"rank"`

	Roster         map[string]*Combatant `json:"roster"`
	OnFieldID      string                `json:"onFieldId"`
	SelectedMoveID string                `json:"selectedMoveId"`
	TimeLeft       int                   `json:"timeLeft"`

	// one-shot flags for the timer warning thresholds
	warned [TIMER_WARN_THRESHOLDS]bool
}

func NewPlayerState(id, username string, points int, rank string, roster []RosterEntry) *PlayerState {
	combatants := make(map[string]*Combatant, len(roster))
	for _, entry := range roster {
		combatants[entry.PokemonID] = NewCombatant(entry)
	}

	return &PlayerState{
		ID:       id,
		Username: username,
		Points:   points,
		Rank:     rank,
		Roster:   combatants,
		TimeLeft: DEFAULT_BATTLE_TIME,
	}
}

// OnField returns the player's active combatant, or nil before the
// first selection.
func (p *PlayerState) OnField() *Combatant {
	if p.OnFieldID == "" {
		return nil
	}

	return p.Roster[p.OnFieldID]
}

func (p *PlayerState) AllFainted() bool {
	for _, combatant := range p.Roster {
		if combatant.Alive() {
			return false
		}
	}

	return true
}

// Battle is a single session between two players. At most two players
// are ever seated; status only moves forward except for abrupt
// termination. Battle values are pooled and reset rather than
// reallocated, see Store.
type Battle struct {
	ID      string                  `json:"id"`
	Status  BattleStatus            `json:"status"`
	Players map[string]*PlayerState `json:"players"`
	Turn    int                     `json:"turns"`

	// mu serializes battle-scoped controller operations. The two
	// participants' connections run on independent goroutines; the
	// store's lock only guards registry membership.
	mu sync.Mutex

	// seats records player ids in join order; it doubles as the
	// deterministic tiebreak for equal effective speeds
	seats []string

	RngSource rand.PCG `json:"-"`
}

func newBattle() *Battle {
	return &Battle{
		Status:    BATTLE_WAITING,
		Players:   make(map[string]*PlayerState),
		seats:     make([]string, 0, 2),
		RngSource: CreateRandomSeed(),
	}
}

func (b *Battle) CreateRng() *rand.Rand {
	return rand.New(&b.RngSource)
}

func (b *Battle) Seated(playerID string) bool {
	_, ok := b.Players[playerID]
	return ok
}

func (b *Battle) seat(player *PlayerState) {
	b.Players[player.ID] = player
	b.seats = append(b.seats, player.ID)
}

// SeatedPlayers returns the players in join order.
func (b *Battle) SeatedPlayers() []*PlayerState {
	return lo.Map(b.seats, func(id string, _ int) *PlayerState {
		return b.Players[id]
	})
}

// Opponent returns the other seated player, or nil while waiting.
func (b *Battle) Opponent(playerID string) *PlayerState {
	for _, id := range b.seats {
		if id != playerID {
			return b.Players[id]
		}
	}

	return nil
}

// BothSelected reports whether both players have an active combatant
// on field.
func (b *Battle) BothSelected() bool {
	if len(b.seats) != 2 {
		return false
	}

	for _, player := range b.Players {
		if player.OnFieldID == "" {
			return false
		}
	}

	return true
}

// BothCommitted reports whether both players have committed a move for
// the pending turn.
func (b *Battle) BothCommitted() bool {
	if len(b.seats) != 2 {
		return false
	}

	for _, player := range b.Players {
		if player.SelectedMoveID == "" {
			return false
		}
	}

	return true
}

// reset clears a battle for reuse from the pool.
func (b *Battle) reset() {
	b.ID = ""
	b.Status = BATTLE_WAITING
	b.Turn = 0
	clear(b.Players)
	b.seats = b.seats[:0]
	b.RngSource = CreateRandomSeed()
}
