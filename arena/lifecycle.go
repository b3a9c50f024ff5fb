package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

var (
	ErrNotInBattle          = errors.New("player is not in this battle")
	ErrBattleNotReady       = errors.New("battle has not started yet")
	ErrPokemonNotOwned      = errors.New("pokemon is not in the player's roster")
	ErrPokemonFainted       = errors.New("pokemon has fainted")
	ErrAlreadySelected      = errors.New("active pokemon already selected")
	ErrNoActivePokemon      = errors.New("no active pokemon selected")
	ErrReplacementRequired  = errors.New("active pokemon fainted, a replacement must be selected")
	ErrMoveNotKnown         = errors.New("pokemon does not know this move")
	ErrMoveAlreadyCommitted = errors.New("a move is already committed for this turn")
)

var lifecycleLogger = func() logr.Logger {
	return internalLogger.WithName("lifecycle")
}

const defaultRatingWriteTimeout = 5 * time.Second

// Controller drives the battle state machine end to end: matchmaking
// joins, pokemon selection, move submission, timer bookkeeping and
// termination with rating adjustment. Battle-scoped operations
// serialize on the session's own lock; cross-battle safety comes
// from Store.
type Controller struct {
	store    *Store
	catalog  *Catalog
	resolver *Resolver

	rosters RosterProvider
	ratings RatingStore
	events  Broadcaster

	ratingWriteTimeout time.Duration
}

func NewController(catalog *Catalog, store *Store, rosters RosterProvider, ratings RatingStore, events Broadcaster) *Controller {
	return &Controller{
		store:              store,
		catalog:            catalog,
		resolver:           NewResolver(catalog),
		rosters:            rosters,
		ratings:            ratings,
		events:             events,
		ratingWriteTimeout: defaultRatingWriteTimeout,
	}
}

// SetBroadcaster swaps the event sink. Intended for wiring at startup
// when the transport needs the controller to exist first.
func (c *Controller) SetBroadcaster(events Broadcaster) {
	c.events = events
}

// Join seats an authenticated player into a battle: the open waiting
// session if one exists, a fresh pooled session otherwise.
func (c *Controller) Join(ctx context.Context, identity Identity) (*Battle, error) {
	roster, err := c.rosters.Roster(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("load roster for %s: %w", identity.ID, err)
	}

	player := NewPlayerState(identity.ID, identity.Username, identity.Points, identity.Rank, roster)

	battle, err := c.store.Join(player)
	if err != nil {
		return nil, err
	}

	c.events.Broadcast(battle.ID, PlayerJoinedEvent{
		BattleID: battle.ID,
		PlayerID: player.ID,
		Username: player.Username,
		Status:   battle.Status,
	})

	return battle, nil
}

// SelectPokemon names the player's active combatant. Before the battle
// starts this is the opening selection; once in progress it is only
// accepted as a replacement for a fainted active combatant.
func (c *Controller) SelectPokemon(battleID, playerID, pokemonID string) error {
	battle, err := c.store.Get(battleID)
	if err != nil {
		return err
	}

	battle.mu.Lock()
	defer battle.mu.Unlock()

	player, ok := battle.Players[playerID]
	if !ok {
		return ErrNotInBattle
	}

	combatant, ok := player.Roster[pokemonID]
	if !ok {
		return ErrPokemonNotOwned
	}

	if player.OnFieldID != "" {
		active := player.OnField()
		if active.Alive() {
			return ErrAlreadySelected
		}

		if !combatant.Alive() {
			return ErrPokemonFainted
		}

		player.OnFieldID = pokemonID
		player.SelectedMoveID = ""

		c.events.Broadcast(battle.ID, PokemonSelectedEvent{
			BattleID:  battle.ID,
			PlayerID:  playerID,
			PokemonID: pokemonID,
		})

		return nil
	}

	player.OnFieldID = pokemonID

	c.events.Broadcast(battle.ID, PokemonSelectedEvent{
		BattleID:  battle.ID,
		PlayerID:  playerID,
		PokemonID: pokemonID,
	})

	if battle.BothSelected() {
		battle.Status = BATTLE_INPROGRESS

		lifecycleLogger().Info("battle started", "battle_id", battle.ID)

		c.events.Broadcast(battle.ID, BattleStartedEvent{BattleID: battle.ID})
	}

	return nil
}

// SubmitMove commits a move for the current turn. A solitary commit is
// stored and waits; once both players have committed the turn resolves
// and both commitments are cleared. The returned result is nil while
// waiting for the opponent.
func (c *Controller) SubmitMove(ctx context.Context, battleID, playerID, moveID string) (*TurnResult, error) {
	battle, err := c.store.Get(battleID)
	if err != nil {
		return nil, err
	}

	battle.mu.Lock()
	defer battle.mu.Unlock()

	player, ok := battle.Players[playerID]
	if !ok {
		return nil, ErrNotInBattle
	}

	if battle.Status != BATTLE_INPROGRESS {
		return nil, ErrBattleNotReady
	}

	active := player.OnField()
	if active == nil {
		return nil, ErrNoActivePokemon
	}
	if !active.Alive() {
		return nil, ErrReplacementRequired
	}

	if !active.KnowsMove(moveID) {
		return nil, ErrMoveNotKnown
	}

	if _, err := c.catalog.Move(moveID); err != nil {
		return nil, err
	}

	if player.SelectedMoveID != "" {
		return nil, ErrMoveAlreadyCommitted
	}

	player.SelectedMoveID = moveID

	if !battle.BothCommitted() {
		return nil, nil
	}

	result, err := c.resolver.ResolveTurn(battle)
	if err != nil {
		return nil, err
	}

	for _, seated := range battle.Players {
		seated.SelectedMoveID = ""
	}
	battle.Turn++

	c.events.Broadcast(battle.ID, TurnResolvedEvent{BattleID: battle.ID, Result: result})

	// check in seat order so a double wipe blames the first seat
	for _, seated := range battle.SeatedPlayers() {
		if seated.AllFainted() {
			if err := c.endBattle(ctx, battle, END_ALL_FAINTED, seated.ID); err != nil {
				return &result, err
			}

			break
		}
	}

	return &result, nil
}

var timerWarningMessages = map[int]string{
	120: "%s has less than 2 minutes left.",
	60:  "%s has less than 1 minute left.",
	30:  "%s has less than 30 seconds left.",
	10:  "%s has less than 10 seconds left.",
	0:   "%s has no time left.",
}

// UpdateTimer records a player's remaining turn time. The tightest
// newly-crossed threshold fires a one-shot warning; hitting zero
// forces termination with reason timeout.
func (c *Controller) UpdateTimer(ctx context.Context, battleID, playerID string, remaining int) error {
	battle, err := c.store.Get(battleID)
	if err != nil {
		return err
	}

	battle.mu.Lock()
	defer battle.mu.Unlock()

	player, ok := battle.Players[playerID]
	if !ok {
		return ErrNotInBattle
	}

	player.TimeLeft = remaining

	// thresholds are ordered highest first; scan backwards for the
	// tightest one the remaining time has crossed
	for i := len(timerThresholds) - 1; i >= 0; i-- {
		if remaining > timerThresholds[i] {
			continue
		}

		if !player.warned[i] {
			player.warned[i] = true

			c.events.Broadcast(battle.ID, TimerWarningEvent{
				BattleID: battle.ID,
				PlayerID: player.ID,
				Message:  fmt.Sprintf(timerWarningMessages[timerThresholds[i]], player.Username),
			})
		}

		break
	}

	if remaining <= 0 {
		return c.endBattle(ctx, battle, END_TIMEOUT, playerID)
	}

	return nil
}

// Surrender ends the battle with the caller as the loser.
func (c *Controller) Surrender(ctx context.Context, battleID, playerID string) error {
	return c.EndBattle(ctx, battleID, END_SURRENDER, playerID)
}

// Disconnect is invoked by the transport layer when a participant's
// connection drops. A still-waiting session is simply released; a
// paired one terminates with the disconnecting player as the loser.
func (c *Controller) Disconnect(ctx context.Context, battleID, playerID string) error {
	if _, err := c.store.Get(battleID); err != nil {
		if battle, perr := c.store.ByParticipant(playerID); perr == nil && battle.Status == BATTLE_WAITING {
			c.store.Release(battle)
			return nil
		}

		return err
	}

	return c.EndBattle(ctx, battleID, END_DISCONNECT, playerID)
}

// GetBattle looks up a live session.
func (c *Controller) GetBattle(battleID string) (*Battle, error) {
	return c.store.Get(battleID)
}

// BattleFor returns the waiting or live session a player sits in.
func (c *Controller) BattleFor(playerID string) (*Battle, error) {
	return c.store.ByParticipant(playerID)
}

var endReasonMessages = map[EndReason]string{
	END_TIMEOUT:     "%s has no time left.",
	END_SURRENDER:   "%s surrendered.",
	END_DISCONNECT:  "%s disconnected.",
	END_ALL_FAINTED: "%s's all pokemon fainted.",
}

// EndBattle terminates a live session. The player who triggered the
// reason loses; the opponent wins. The rating write happens first,
// under a bounded timeout — only after it succeeds is the session
// removed from the registry and recycled, so a persistence failure
// never strands a half-updated pair.
func (c *Controller) EndBattle(ctx context.Context, battleID string, reason EndReason, triggeredBy string) error {
	battle, err := c.store.Get(battleID)
	if err != nil {
		return err
	}

	battle.mu.Lock()
	defer battle.mu.Unlock()

	return c.endBattle(ctx, battle, reason, triggeredBy)
}

// endBattle is EndBattle with the session lock already held, for the
// operations that terminate mid-flight (turn wipes, timer expiry).
func (c *Controller) endBattle(ctx context.Context, battle *Battle, reason EndReason, triggeredBy string) error {
	loser, ok := battle.Players[triggeredBy]
	if !ok {
		return ErrNotInBattle
	}

	winner := battle.Opponent(triggeredBy)
	if winner == nil {
		return ErrNotInBattle
	}

	winnerUpdate, loserUpdate := ratingOutcome(winner, loser, reason)

	writeCtx, cancel := context.WithTimeout(ctx, c.ratingWriteTimeout)
	defer cancel()

	if err := c.ratings.UpdateRatings(writeCtx, winnerUpdate, loserUpdate); err != nil {
		lifecycleLogger().Error(err, "rating persistence failed, battle kept live",
			"battle_id", battle.ID,
			"reason", string(reason),
		)

		return fmt.Errorf("update ratings for battle %s: %w", battle.ID, err)
	}

	winner.Points, winner.Rank = winnerUpdate.Points, winnerUpdate.Rank
	loser.Points, loser.Rank = loserUpdate.Points, loserUpdate.Rank

	battle.Status = BATTLE_COMPLETED

	lifecycleLogger().Info("battle ended",
		"battle_id", battle.ID,
		"reason", string(reason),
		"winner", winner.ID,
		"loser", loser.ID,
	)

	c.events.Broadcast(battle.ID, BattleEndedEvent{
		BattleID: battle.ID,
		Reason:   reason,
		WinnerID: winner.ID,
		LoserID:  loser.ID,
		Messages: []string{
			fmt.Sprintf(endReasonMessages[reason], loser.Username),
			fmt.Sprintf("%s won the battle!", winner.Username),
		},
	})

	c.store.Release(battle)

	return nil
}
