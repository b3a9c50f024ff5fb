// Package gateway is the WebSocket transport adapter in front of the
// battle engine. It stays deliberately thin: messages are decoded,
// handed to the lifecycle controller, and engine events are fanned out
// to the session's participants. All game rules live in arena.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pokearena/backend/arena"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// IdentityLoader resolves an authenticated player id to their current
// rating identity. Authentication itself happens upstream.
type IdentityLoader func(ctx context.Context, playerID, username string) (arena.Identity, error)

type client struct {
	conn *websocket.Conn

	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func (c *client) send(envelope outEnvelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteJSON(envelope)
}

type inEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Gateway upgrades connections, tracks which players sit in which
// battle room, and implements arena.Broadcaster.
type Gateway struct {
	controller *arena.Controller
	identities IdentityLoader
	log        zerolog.Logger

	mu      sync.Mutex
	clients map[string]*client         // player id -> connection
	rooms   map[string]map[string]bool // battle id -> player ids
}

func New(controller *arena.Controller, identities IdentityLoader, log zerolog.Logger) *Gateway {
	return &Gateway{
		controller: controller,
		identities: identities,
		log:        log.With().Str("component", "gateway").Logger(),
		clients:    make(map[string]*client),
		rooms:      make(map[string]map[string]bool),
	}
}

// Router mounts the battle websocket endpoint.
func (g *Gateway) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/battle", g.handleWS)

	return router
}

// Broadcast delivers an engine event to every participant of the
// battle room.
func (g *Gateway) Broadcast(battleID string, event arena.Event) {
	envelope := outEnvelope{Event: event.EventType(), Data: event}

	g.mu.Lock()
	members := make([]*client, 0, 2)
	for playerID := range g.rooms[battleID] {
		if c, ok := g.clients[playerID]; ok {
			members = append(members, c)
		}
	}
	if _, ended := event.(arena.BattleEndedEvent); ended {
		delete(g.rooms, battleID)
	}
	g.mu.Unlock()

	for _, member := range members {
		if err := member.send(envelope); err != nil {
			g.log.Warn().Err(err).Str("battle_id", battleID).Msg("broadcast write failed")
		}
	}
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	username := r.URL.Query().Get("username")
	if playerID == "" || username == "" {
		http.Error(w, "playerId and username are required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn}

	g.mu.Lock()
	g.clients[playerID] = c
	g.mu.Unlock()

	g.log.Info().Str("player_id", playerID).Msg("player connected")

	defer func() {
		g.mu.Lock()
		delete(g.clients, playerID)
		g.mu.Unlock()

		conn.Close()
		g.handleDisconnect(playerID)
	}()

	for {
		var envelope inEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			g.log.Info().Err(err).Str("player_id", playerID).Msg("player disconnected")
			return
		}

		if err := g.dispatch(r.Context(), playerID, username, envelope); err != nil {
			_ = c.send(outEnvelope{Event: "error", Data: map[string]string{"message": err.Error()}})
		}
	}
}

type battlePayload struct {
	BattleID  string `json:"battleId"`
	PokemonID string `json:"pokemonId,omitempty"`
	MoveID    string `json:"moveId,omitempty"`
	Time      int    `json:"time,omitempty"`
}

func (g *Gateway) dispatch(ctx context.Context, playerID, username string, envelope inEnvelope) error {
	var payload battlePayload
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return err
		}
	}

	switch envelope.Event {
	case "join-battle":
		identity, err := g.identities(ctx, playerID, username)
		if err != nil {
			return err
		}
		identity.Username = username

		battle, err := g.controller.Join(ctx, identity)
		if err != nil {
			return err
		}

		g.mu.Lock()
		room, ok := g.rooms[battle.ID]
		if !ok {
			room = make(map[string]bool, 2)
			g.rooms[battle.ID] = room
		}
		room[playerID] = true
		g.mu.Unlock()

		// the engine broadcast above ran before this player entered
		// the room, so echo the joined battle back directly
		g.mu.Lock()
		c := g.clients[playerID]
		g.mu.Unlock()
		if c != nil {
			return c.send(outEnvelope{Event: "user-joined-battle", Data: battle})
		}

		return nil
	case "first-poke-selected":
		return g.controller.SelectPokemon(payload.BattleID, playerID, payload.PokemonID)
	case "select-move":
		_, err := g.controller.SubmitMove(ctx, payload.BattleID, playerID, payload.MoveID)
		return err
	case "update-player-timer":
		return g.controller.UpdateTimer(ctx, payload.BattleID, playerID, payload.Time)
	case "player-timed-out":
		return g.controller.EndBattle(ctx, payload.BattleID, arena.END_TIMEOUT, playerID)
	case "surrender":
		return g.controller.Surrender(ctx, payload.BattleID, playerID)
	default:
		g.log.Warn().Str("event", envelope.Event).Msg("unknown client event")
		return nil
	}
}

func (g *Gateway) handleDisconnect(playerID string) {
	battle, err := g.controller.BattleFor(playerID)
	if err != nil {
		return
	}

	if err := g.controller.Disconnect(context.Background(), battle.ID, playerID); err != nil {
		g.log.Warn().Err(err).Str("player_id", playerID).Msg("disconnect termination failed")
	}
}
