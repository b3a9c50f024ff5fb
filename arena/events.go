package arena

// Event is a structured notification emitted by the lifecycle
// controller for delivery to a battle's two participants.
type Event interface {
	EventType() string
}

type PlayerJoinedEvent struct {
	BattleID string       `json:"battleId"`
	PlayerID string       `json:"playerId"`
	Username string       `json:"username"`
	Status   BattleStatus `json:"status"`
}

func (PlayerJoinedEvent) EventType() string { return "user-joined-battle" }

type PokemonSelectedEvent struct {
	BattleID  string `json:"battleId"`
	PlayerID  string `json:"playerId"`
	PokemonID string `json:"pokemonId"`
}

func (PokemonSelectedEvent) EventType() string { return "first-poke-selected" }

// BattleStartedEvent fires once both players have chosen their opening
// combatant.
type BattleStartedEvent struct {
	BattleID string `json:"battleId"`
}

func (BattleStartedEvent) EventType() string { return "battle-started" }

type TurnResolvedEvent struct {
	BattleID string     `json:"battleId"`
	Result   TurnResult `json:"result"`
}

func (TurnResolvedEvent) EventType() string { return "turn-resolved" }

type TimerWarningEvent struct {
	BattleID string `json:"battleId"`
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

func (TimerWarningEvent) EventType() string { return "player-timer-updated" }

type BattleEndedEvent struct {
	BattleID string    `json:"battleId"`
	Reason   EndReason `json:"reason"`
	WinnerID string    `json:"winnerId"`
	LoserID  string    `json:"loserId"`
	Messages []string  `json:"messages"`
}

func (BattleEndedEvent) EventType() string { return "battle-ended" }
