package arena

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
)

func newTestController(ratings RatingStore) (*Controller, *recordingBroadcaster) {
	events := &recordingBroadcaster{}
	rosters := fixedRosters{
		"a": testRoster("a", BaseStats{Hp: 100, Attack: 100, Defense: 50, Speed: 100}),
		"b": testRoster("b", BaseStats{Hp: 100, Attack: 80, Defense: 50, Speed: 80}),
	}

	controller := NewController(testCatalog(), NewStore(), rosters, ratings, events)
	controller.resolver.forceRng = rand.New(highSource{})

	return controller, events
}

// startedBattle joins both players with 100 points each and walks them
// through opening selection.
func startedBattle(t *testing.T, controller *Controller) *Battle {
	t.Helper()

	ctx := context.Background()

	battle, err := controller.Join(ctx, Identity{ID: "a", Username: "a", Points: 100, Rank: RANK_SILVER})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := controller.Join(ctx, Identity{ID: "b", Username: "b", Points: 100, Rank: RANK_SILVER}); err != nil {
		t.Fatal(err)
	}

	if err := controller.SelectPokemon(battle.ID, "a", "a-poke"); err != nil {
		t.Fatal(err)
	}
	if err := controller.SelectPokemon(battle.ID, "b", "b-poke"); err != nil {
		t.Fatal(err)
	}

	if battle.Status != BATTLE_INPROGRESS {
		t.Fatalf("expected in-progress after both selections, got %s", battle.Status)
	}

	return battle
}

func TestFullBattleToKnockout(t *testing.T) {
	ratings := &recordingRatings{}
	controller, events := newTestController(ratings)

	battle := startedBattle(t, controller)
	battleID := battle.ID
	ctx := context.Background()

	result, err := controller.SubmitMove(ctx, battleID, "a", "strike")
	if err != nil {
		t.Fatal(err)
	}
	if result != nil {
		t.Fatal("expected no result while waiting for the opponent")
	}

	result, err = controller.SubmitMove(ctx, battleID, "b", "strike")
	if err != nil {
		t.Fatal(err)
	}
	if result == nil {
		t.Fatal("expected a resolved turn once both committed")
	}

	// 100 attack into 50 defense with a 50-power move one-shots the
	// 100 HP defender; the second mover never acts
	if len(result.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(result.Stages))
	}
	if result.Stages[0].Damage != 100 || !result.Stages[0].Fainted {
		t.Fatalf("unexpected opening stage: %+v", result.Stages[0])
	}

	if len(ratings.updates) != 1 {
		t.Fatalf("expected 1 rating write, got %d", len(ratings.updates))
	}

	winner, loser := ratings.updates[0][0], ratings.updates[0][1]
	if winner.PlayerID != "a" || winner.Points != 120 || winner.WinLossDelta != 1 {
		t.Fatalf("unexpected winner update: %+v", winner)
	}
	if loser.PlayerID != "b" || loser.Points != 80 || loser.WinLossDelta != -1 {
		t.Fatalf("unexpected loser update: %+v", loser)
	}
	if loser.Rank != RANK_BRONZE {
		t.Fatalf("loser should demote to bronze at 80 points, got %s", loser.Rank)
	}

	ended := events.ofType("battle-ended")
	if len(ended) != 1 {
		t.Fatalf("expected 1 battle-ended event, got %d", len(ended))
	}

	endedEvent := ended[0].(BattleEndedEvent)
	if endedEvent.Reason != END_ALL_FAINTED || endedEvent.WinnerID != "a" {
		t.Fatalf("unexpected end event: %+v", endedEvent)
	}

	if controller.store.LiveCount() != 0 || controller.store.PooledCount() != 1 {
		t.Fatal("completed battle should be released back to the pool")
	}
}

// Both participants' connections submit from their own goroutines, so
// concurrent submissions on the same battle must still resolve each
// turn exactly once.
func TestConcurrentMoveSubmission(t *testing.T) {
	controller, _ := newTestController(&recordingRatings{})
	battle := startedBattle(t, controller)
	ctx := context.Background()

	const turns = 100
	for turn := 0; turn < turns; turn++ {
		results := make(chan *TurnResult, 2)

		var wg sync.WaitGroup
		for _, playerID := range []string{"a", "b"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()

				result, err := controller.SubmitMove(ctx, battle.ID, id, "sharpen")
				if err != nil {
					t.Errorf("turn %d: submit for %s: %v", turn, id, err)
					return
				}

				results <- result
			}(playerID)
		}
		wg.Wait()
		close(results)

		resolved := 0
		for result := range results {
			if result != nil {
				resolved++
			}
		}

		if resolved != 1 {
			t.Fatalf("turn %d: expected exactly one resolution, got %d", turn, resolved)
		}
	}

	if battle.Turn != turns {
		t.Fatalf("expected %d turns resolved, got %d", turns, battle.Turn)
	}
}

func TestSelectPokemonValidation(t *testing.T) {
	controller, _ := newTestController(&recordingRatings{})
	battle := startedBattle(t, controller)

	if err := controller.SelectPokemon("bogus", "a", "a-poke"); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("expected ErrBattleNotFound, got %v", err)
	}

	if err := controller.SelectPokemon(battle.ID, "stranger", "a-poke"); !errors.Is(err, ErrNotInBattle) {
		t.Fatalf("expected ErrNotInBattle, got %v", err)
	}

	if err := controller.SelectPokemon(battle.ID, "a", "b-poke"); !errors.Is(err, ErrPokemonNotOwned) {
		t.Fatalf("expected ErrPokemonNotOwned, got %v", err)
	}

	// the active pokemon is alive, so no replacement is accepted
	if err := controller.SelectPokemon(battle.ID, "a", "a-poke"); !errors.Is(err, ErrAlreadySelected) {
		t.Fatalf("expected ErrAlreadySelected, got %v", err)
	}
}

func TestMidBattleReplacement(t *testing.T) {
	events := &recordingBroadcaster{}
	rosters := fixedRosters{
		"a": append(
			testRoster("a", BaseStats{Hp: 100, Attack: 50, Defense: 50, Speed: 50}),
			RosterEntry{
				PokemonID: "a-backup",
				Name:      "dummy",
				Level:     10,
				Types:     []string{TYPENAME_FLYING},
				Moveset:   []string{"strike", "wild-swing", "sharpen", "menace"},
				Stats:     BaseStats{Hp: 100, Attack: 50, Defense: 50, Speed: 50},
			},
		),
		"b": testRoster("b", BaseStats{Hp: 100, Attack: 50, Defense: 50, Speed: 50}),
	}
	controller := NewController(testCatalog(), NewStore(), rosters, &recordingRatings{}, events)

	battle := startedBattle(t, controller)
	player := battle.Players["a"]

	player.Roster["a-poke"].Hp = 0

	if err := controller.SelectPokemon(battle.ID, "a", "a-backup"); err != nil {
		t.Fatal(err)
	}

	if player.OnFieldID != "a-backup" {
		t.Fatalf("expected the backup on field, got %s", player.OnFieldID)
	}

	// a fainted replacement is rejected
	player.Roster["a-backup"].Hp = 0
	if err := controller.SelectPokemon(battle.ID, "a", "a-poke"); !errors.Is(err, ErrPokemonFainted) {
		t.Fatalf("expected ErrPokemonFainted, got %v", err)
	}
}

func TestSubmitMoveValidation(t *testing.T) {
	controller, _ := newTestController(&recordingRatings{})
	ctx := context.Background()

	battle, err := controller.Join(ctx, Identity{ID: "a", Username: "a", Points: 100, Rank: RANK_SILVER})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := controller.Join(ctx, Identity{ID: "b", Username: "b", Points: 100, Rank: RANK_SILVER}); err != nil {
		t.Fatal(err)
	}

	// paired but neither player has selected yet
	if _, err := controller.SubmitMove(ctx, battle.ID, "a", "strike"); !errors.Is(err, ErrBattleNotReady) {
		t.Fatalf("expected ErrBattleNotReady, got %v", err)
	}

	if err := controller.SelectPokemon(battle.ID, "a", "a-poke"); err != nil {
		t.Fatal(err)
	}
	if err := controller.SelectPokemon(battle.ID, "b", "b-poke"); err != nil {
		t.Fatal(err)
	}

	if _, err := controller.SubmitMove(ctx, battle.ID, "a", "made-up-move"); !errors.Is(err, ErrMoveNotKnown) {
		t.Fatalf("expected ErrMoveNotKnown, got %v", err)
	}

	if _, err := controller.SubmitMove(ctx, battle.ID, "a", "sharpen"); err != nil {
		t.Fatal(err)
	}

	if _, err := controller.SubmitMove(ctx, battle.ID, "a", "strike"); !errors.Is(err, ErrMoveAlreadyCommitted) {
		t.Fatalf("expected ErrMoveAlreadyCommitted, got %v", err)
	}
}

func TestSurrenderAwardsPoints(t *testing.T) {
	ratings := &recordingRatings{}
	controller, events := newTestController(ratings)

	battle := startedBattle(t, controller)

	if err := controller.Surrender(context.Background(), battle.ID, "b"); err != nil {
		t.Fatal(err)
	}

	if len(ratings.updates) != 1 {
		t.Fatalf("expected 1 rating write, got %d", len(ratings.updates))
	}

	winner, loser := ratings.updates[0][0], ratings.updates[0][1]
	if winner.PlayerID != "a" || winner.Points != 115 {
		t.Fatalf("unexpected winner update: %+v", winner)
	}
	if loser.PlayerID != "b" || loser.Points != 85 {
		t.Fatalf("unexpected loser update: %+v", loser)
	}

	ended := events.ofType("battle-ended")
	if len(ended) != 1 || ended[0].(BattleEndedEvent).Reason != END_SURRENDER {
		t.Fatalf("unexpected end events: %v", ended)
	}
}

func TestRatingFailureKeepsBattleLive(t *testing.T) {
	controller, events := newTestController(failingRatings{})

	battle := startedBattle(t, controller)
	player := battle.Players["b"]

	err := controller.Surrender(context.Background(), battle.ID, "b")
	if !errors.Is(err, errRatingsDown) {
		t.Fatalf("expected the persistence error surfaced, got %v", err)
	}

	// nothing was applied and the session is still addressable
	if battle.Status != BATTLE_INPROGRESS {
		t.Fatalf("battle should stay in progress, got %s", battle.Status)
	}
	if player.Points != 100 {
		t.Fatalf("in-memory points changed despite failed write: %d", player.Points)
	}
	if _, err := controller.GetBattle(battle.ID); err != nil {
		t.Fatalf("battle dropped from the registry: %v", err)
	}
	if len(events.ofType("battle-ended")) != 0 {
		t.Fatal("battle-ended broadcast despite failed write")
	}
}

func TestTimerWarningsFireOnce(t *testing.T) {
	ratings := &recordingRatings{}
	controller, events := newTestController(ratings)

	battle := startedBattle(t, controller)
	ctx := context.Background()

	steps := []struct {
		remaining string
		seconds   int
		warnings  int
	}{
		{"above all thresholds", 125, 0},
		{"under 2 minutes", 118, 1},
		{"repeat under 2 minutes", 115, 1},
		{"under 1 minute", 55, 2},
		{"under 30 seconds", 29, 3},
		{"under 10 seconds", 9, 4},
	}

	for _, step := range steps {
		if err := controller.UpdateTimer(ctx, battle.ID, "a", step.seconds); err != nil {
			t.Fatal(err)
		}

		if got := len(events.ofType("player-timer-updated")); got != step.warnings {
			t.Fatalf("%s: expected %d warnings, got %d", step.remaining, step.warnings, got)
		}
	}

	// hitting zero fires the last warning and times the player out
	if err := controller.UpdateTimer(ctx, battle.ID, "a", 0); err != nil {
		t.Fatal(err)
	}

	if got := len(events.ofType("player-timer-updated")); got != 5 {
		t.Fatalf("expected 5 warnings after timeout, got %d", got)
	}

	ended := events.ofType("battle-ended")
	if len(ended) != 1 || ended[0].(BattleEndedEvent).Reason != END_TIMEOUT {
		t.Fatalf("unexpected end events: %v", ended)
	}

	winner := ratings.updates[0][0]
	if winner.PlayerID != "b" || winner.Points != 110 {
		t.Fatalf("unexpected winner update: %+v", winner)
	}
}

func TestDisconnectWhileWaitingReleasesSession(t *testing.T) {
	controller, _ := newTestController(&recordingRatings{})
	ctx := context.Background()

	battle, err := controller.Join(ctx, Identity{ID: "a", Username: "a", Points: 100, Rank: RANK_SILVER})
	if err != nil {
		t.Fatal(err)
	}

	if err := controller.Disconnect(ctx, battle.ID, "a"); err != nil {
		t.Fatal(err)
	}

	if _, err := controller.BattleFor("a"); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("waiting session should be gone, got %v", err)
	}

	// free to queue again
	if _, err := controller.Join(ctx, Identity{ID: "a", Username: "a", Points: 100, Rank: RANK_SILVER}); err != nil {
		t.Fatal(err)
	}
}

func TestDisconnectMidBattleForfeits(t *testing.T) {
	ratings := &recordingRatings{}
	controller, events := newTestController(ratings)

	battle := startedBattle(t, controller)

	if err := controller.Disconnect(context.Background(), battle.ID, "a"); err != nil {
		t.Fatal(err)
	}

	ended := events.ofType("battle-ended")
	if len(ended) != 1 || ended[0].(BattleEndedEvent).Reason != END_DISCONNECT {
		t.Fatalf("unexpected end events: %v", ended)
	}

	winner, loser := ratings.updates[0][0], ratings.updates[0][1]
	if winner.PlayerID != "b" || winner.Points != 105 {
		t.Fatalf("unexpected winner update: %+v", winner)
	}
	if loser.PlayerID != "a" || loser.Points != 95 {
		t.Fatalf("unexpected loser update: %+v", loser)
	}
}
