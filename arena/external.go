package arena

import "context"

// Identity is an already-authenticated player as handed over by the
// transport layer. The engine performs no credential validation.
type Identity struct {
	ID       string
	Username string
	Points   int
	Rank     string
}

// RosterProvider loads a player's active combatant roster at join
// time. Implemented outside the engine (pokemon service, fixtures).
type RosterProvider interface {
	Roster(ctx context.Context, playerID string) ([]RosterEntry, error)
}

// RatingStore persists the rating outcome of a finished battle. Both
// updates must be applied atomically or not at all.
type RatingStore interface {
	UpdateRatings(ctx context.Context, winner RatingUpdate, loser RatingUpdate) error
}

// Broadcaster delivers session-lifecycle and turn-result events to the
// battle's participants. The engine never touches sockets; it only
// emits structured events keyed by session id.
type Broadcaster interface {
	Broadcast(battleID string, event Event)
}

// NopBroadcaster discards all events. Useful in tests and tooling.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, Event) {}
