// Package ratingdb is a SQLite-backed implementation of the engine's
// rating-persistence collaborator.
package ratingdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pokearena/backend/arena"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ratings (
	player_id TEXT PRIMARY KEY,
	points    INTEGER NOT NULL DEFAULT 0,
	rank      TEXT    NOT NULL DEFAULT 'bronze',
	wins      INTEGER NOT NULL DEFAULT 0,
	losses    INTEGER NOT NULL DEFAULT 0
);`

// Store persists rating state in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ratings database. Pass ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ratings db path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ratings db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ratings db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ratings schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// UpdateRatings writes both players' post-battle rating state in one
// transaction: either both rows land or neither does.
func (s *Store) UpdateRatings(ctx context.Context, winner arena.RatingUpdate, loser arena.RatingUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rating update: %w", err)
	}
	defer tx.Rollback()

	for _, update := range []arena.RatingUpdate{winner, loser} {
		wins, losses := 0, 0
		if update.WinLossDelta > 0 {
			wins = update.WinLossDelta
		} else {
			losses = -update.WinLossDelta
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (player_id, points, rank, wins, losses)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (player_id) DO UPDATE SET
				points = excluded.points,
				rank   = excluded.rank,
				wins   = ratings.wins + excluded.wins,
				losses = ratings.losses + excluded.losses`,
			update.PlayerID, update.Points, update.Rank, wins, losses,
		)
		if err != nil {
			return fmt.Errorf("write rating for %s: %w", update.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rating update: %w", err)
	}

	return nil
}

// Rating reads one player's stored rating state, defaulting a player
// that has never finished a battle.
func (s *Store) Rating(ctx context.Context, playerID string) (arena.Identity, error) {
	identity := arena.Identity{ID: playerID, Points: 0, Rank: arena.RankForPoints(0)}

	row := s.db.QueryRowContext(ctx,
		`SELECT points, rank FROM ratings WHERE player_id = ?`, playerID)

	err := row.Scan(&identity.Points, &identity.Rank)
	if err == sql.ErrNoRows {
		return identity, nil
	}
	if err != nil {
		return arena.Identity{}, fmt.Errorf("read rating for %s: %w", playerID, err)
	}

	return identity, nil
}
