package ratingdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pokearena/backend/arena"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "ratings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestRatingDefaultsForNewPlayer(t *testing.T) {
	store := openTestStore(t)

	identity, err := store.Rating(context.Background(), "fresh")
	if err != nil {
		t.Fatal(err)
	}

	if identity.Points != 0 || identity.Rank != arena.RANK_BRONZE {
		t.Fatalf("unexpected default rating: %+v", identity)
	}
}

func TestUpdateRatingsWritesBothRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.UpdateRatings(ctx,
		arena.RatingUpdate{PlayerID: "winner", Points: 120, Rank: arena.RANK_SILVER, WinLossDelta: 1},
		arena.RatingUpdate{PlayerID: "loser", Points: 80, Rank: arena.RANK_BRONZE, WinLossDelta: -1},
	)
	if err != nil {
		t.Fatal(err)
	}

	winner, err := store.Rating(ctx, "winner")
	if err != nil {
		t.Fatal(err)
	}
	if winner.Points != 120 || winner.Rank != arena.RANK_SILVER {
		t.Fatalf("unexpected winner rating: %+v", winner)
	}

	loser, err := store.Rating(ctx, "loser")
	if err != nil {
		t.Fatal(err)
	}
	if loser.Points != 80 || loser.Rank != arena.RANK_BRONZE {
		t.Fatalf("unexpected loser rating: %+v", loser)
	}
}

func TestUpdateRatingsUpsertsExistingRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := store.UpdateRatings(ctx,
		arena.RatingUpdate{PlayerID: "a", Points: 20, Rank: arena.RANK_BRONZE, WinLossDelta: 1},
		arena.RatingUpdate{PlayerID: "b", Points: 0, Rank: arena.RANK_BRONZE, WinLossDelta: -1},
	)
	if first != nil {
		t.Fatal(first)
	}

	// rematch with the result flipped
	second := store.UpdateRatings(ctx,
		arena.RatingUpdate{PlayerID: "b", Points: 20, Rank: arena.RANK_BRONZE, WinLossDelta: 1},
		arena.RatingUpdate{PlayerID: "a", Points: 0, Rank: arena.RANK_BRONZE, WinLossDelta: -1},
	)
	if second != nil {
		t.Fatal(second)
	}

	a, err := store.Rating(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if a.Points != 0 {
		t.Fatalf("expected a back at 0 points, got %d", a.Points)
	}

	b, err := store.Rating(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if b.Points != 20 {
		t.Fatalf("expected b at 20 points, got %d", b.Points)
	}
}
