package arena

import (
	cryptoRand "crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/samber/lo"
)

var (
	ErrAlreadyInBattle = errors.New("can only play one battle at a time")
	ErrBattleNotFound  = errors.New("battle not found")
)

// Store is the in-memory registry of battle sessions. Completed
// sessions are reset and recycled through a free list instead of being
// reallocated; under matchmaking churn battles move pool -> waiting ->
// live -> pool. All methods are safe for concurrent use: independent
// connections create and destroy battles at the same time.
type Store struct {
	mu sync.Mutex

	pool    []*Battle
	waiting []*Battle
	live    map[string]*Battle
}

func NewStore() *Store {
	return &Store{
		pool:    make([]*Battle, 0),
		waiting: make([]*Battle, 0),
		live:    make(map[string]*Battle),
	}
}

func generateBattleID() string {
	idBytes := make([]byte, BATTLE_ID_LENGTH)
	if _, err := cryptoRand.Read(idBytes); err != nil {
		panic(err)
	}

	return hex.EncodeToString(idBytes)
}

// checkout pops a pooled battle or allocates a fresh one. Caller holds mu.
func (s *Store) checkout() *Battle {
	if n := len(s.pool); n > 0 {
		battle := s.pool[n-1]
		s.pool = s.pool[:n-1]
		return battle
	}

	return newBattle()
}

// Join seats the player in the open waiting session if one exists,
// otherwise starts a new waiting session. When the second player is
// seated the session moves to the live registry with status
// BATTLE_STARTING; it becomes in-progress once both players have
// chosen their first pokemon.
func (s *Store) Join(player *PlayerState) (*Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seated(player.ID) != nil {
		return nil, ErrAlreadyInBattle
	}

	var battle *Battle
	if n := len(s.waiting); n > 0 {
		battle = s.waiting[n-1]
		s.waiting = s.waiting[:n-1]
	} else {
		battle = s.checkout()
		battle.ID = generateBattleID()
	}

	battle.seat(player)

	if len(battle.Players) == 2 {
		battle.Status = BATTLE_STARTING
		s.live[battle.ID] = battle
	} else {
		battle.Status = BATTLE_WAITING
		s.waiting = append(s.waiting, battle)
	}

	internalLogger.WithName("store").Info("player joined battle",
		"battle_id", battle.ID,
		"player_id", player.ID,
		"status", string(battle.Status),
	)

	return battle, nil
}

// seated returns the session the player sits in, waiting or live.
// Caller holds mu.
func (s *Store) seated(playerID string) *Battle {
	for _, battle := range s.waiting {
		if battle.Seated(playerID) {
			return battle
		}
	}

	for _, battle := range s.live {
		if battle.Seated(playerID) {
			return battle
		}
	}

	return nil
}

// Get looks up a live session by id.
func (s *Store) Get(battleID string) (*Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, ok := s.live[battleID]
	if !ok {
		return nil, ErrBattleNotFound
	}

	return battle, nil
}

// ByParticipant looks up the waiting or live session a player sits in.
func (s *Store) ByParticipant(playerID string) (*Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if battle := s.seated(playerID); battle != nil {
		return battle, nil
	}

	return nil, ErrBattleNotFound
}

// Release removes a session from the live registry (or the waiting
// queue, for a never-paired session), resets it and returns it to the
// free list.
func (s *Store) Release(battle *Battle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.live, battle.ID)
	s.waiting = lo.Without(s.waiting, battle)

	internalLogger.WithName("store").Info("battle released to pool", "battle_id", battle.ID)

	battle.reset()
	s.pool = append(s.pool, battle)
}

// LiveCount reports the number of live sessions.
func (s *Store) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.live)
}

// PooledCount reports the size of the free list.
func (s *Store) PooledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pool)
}
