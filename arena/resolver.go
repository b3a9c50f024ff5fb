package arena

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-logr/logr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var resolverLogger = func() logr.Logger {
	return internalLogger.WithName("resolver")
}

var titleCaser = cases.Title(language.English)

func displayName(c *Combatant) string {
	return titleCaser.String(c.Name)
}

// StatChange records the outcome of one stat-stage delta: the
// resulting stage and current value, or Clamped when the stat was
// already pinned at the ±6 boundary.
type StatChange struct {
	Stat    string `json:"stat"`
	Stage   int    `json:"stage"`
	Value   int    `json:"value"`
	Clamped bool   `json:"clamped"`
}

// TurnStage is the immutable result of a single move-execution step.
// Two stages are produced per completed turn, in acting order.
type TurnStage struct {
	AttackerPlayerID string `json:"attackerPlayerId"`
	DefenderPlayerID string `json:"defenderPlayerId"`
	AttackerID       string `json:"attackerId"`
	DefenderID       string `json:"defenderId"`
	MoveID           string `json:"moveId"`

	Missed        bool   `json:"missed"`
	Flinched      bool   `json:"flinched"`
	Damage        int    `json:"damage"`
	Crit          bool   `json:"crit"`
	Effectiveness string `json:"effectiveness"`
	Fainted       bool   `json:"fainted"`

	// status condition newly applied to the defender, STATUS_NONE otherwise
	InflictedStatus int `json:"inflictedStatus"`

	// stat-stage outcomes keyed by affected player id
	StatChanges map[string][]StatChange `json:"statChanges,omitempty"`

	Messages []string `json:"messages"`
}

// TurnResult is what gets broadcast for one completed exchange: the
// move-execution stages in acting order plus end-of-turn narration
// (status chip damage).
type TurnResult struct {
	Turn      int         `json:"turn"`
	Stages    []TurnStage `json:"stages"`
	EndOfTurn []string    `json:"endOfTurn,omitempty"`
}

// Resolver computes turn outcomes. It holds no per-battle state; all
// mutation lands on the CombatantStates of the battle passed in.
type Resolver struct {
	catalog *Catalog

	// Rng that overrides the battle's own stream. Used to force
	// deterministic rolls in tests.
	forceRng *rand.Rand
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// ResolveTurn runs both committed moves for the battle's pending turn.
// Steps run sequentially: the second mover attacks with stats as they
// stand after the first step. A second mover that fainted during the
// first step does not act. The caller clears both commitments.
func (r *Resolver) ResolveTurn(battle *Battle) (TurnResult, error) {
	players := battle.SeatedPlayers()
	if len(players) != 2 {
		return TurnResult{}, fmt.Errorf("battle %s: turn resolution requires two seated players", battle.ID)
	}

	moves := make([]Move, 2)
	for i, player := range players {
		move, err := r.catalog.Move(player.SelectedMoveID)
		if err != nil {
			return TurnResult{}, fmt.Errorf("player %s: %w", player.ID, err)
		}

		moves[i] = move
	}

	// Seat order breaks effective-speed ties, so a strictly faster
	// second seat is the only way the order flips.
	first, second := 0, 1
	firstSpeed := players[0].OnField().EffectiveSpeed(moves[0].Priority)
	secondSpeed := players[1].OnField().EffectiveSpeed(moves[1].Priority)
	if secondSpeed > firstSpeed {
		first, second = 1, 0
	}

	resolverLogger().V(1).Info("turn order decided",
		"battle_id", battle.ID,
		"turn", battle.Turn,
		"first_player", players[first].ID,
		"first_speed", firstSpeed,
		"second_player", players[second].ID,
		"second_speed", secondSpeed,
	)

	rng := battle.CreateRng()
	if r.forceRng != nil {
		rng = r.forceRng
	}

	result := TurnResult{Turn: battle.Turn}

	firstStage, defenderFlinched := r.executeMove(rng, players[first], players[second], moves[first])
	result.Stages = append(result.Stages, firstStage)

	switch {
	case !players[second].OnField().Alive():
		// fainted before acting, no second step
	case defenderFlinched:
		flinched := players[second].OnField()
		result.Stages = append(result.Stages, TurnStage{
			AttackerPlayerID: players[second].ID,
			DefenderPlayerID: players[first].ID,
			AttackerID:       flinched.ID,
			DefenderID:       players[first].OnField().ID,
			MoveID:           players[second].SelectedMoveID,
			Flinched:         true,
			Effectiveness:    EFFECTIVENESS_NEUTRAL,
			Messages:         []string{fmt.Sprintf("%s flinched and couldn't move!", displayName(flinched))},
		})
	default:
		secondStage, _ := r.executeMove(rng, players[second], players[first], moves[second])
		result.Stages = append(result.Stages, secondStage)
	}

	for _, i := range []int{first, second} {
		result.EndOfTurn = append(result.EndOfTurn, applyStatusChip(players[i].OnField())...)
	}

	return result, nil
}

// executeMove runs a single move-execution step of attacker against
// defender. The second return value reports whether the defender
// flinched and should lose their step this turn.
func (r *Resolver) executeMove(rng *rand.Rand, attackerPlayer, defenderPlayer *PlayerState, move Move) (TurnStage, bool) {
	attacker := attackerPlayer.OnField()
	defender := defenderPlayer.OnField()

	stage := TurnStage{
		AttackerPlayerID: attackerPlayer.ID,
		DefenderPlayerID: defenderPlayer.ID,
		AttackerID:       attacker.ID,
		DefenderID:       defender.ID,
		MoveID:           move.ID,
		Effectiveness:    EFFECTIVENESS_NEUTRAL,
	}

	stage.Messages = append(stage.Messages, fmt.Sprintf("%s used %s!", displayName(attacker), move.Name))

	accuracyCheck := rng.IntN(100)
	if accuracyCheck >= move.Accuracy {
		resolverLogger().V(1).Info("accuracy check failed", "accuracy_check", accuracyCheck, "accuracy", move.Accuracy, "move", move.ID)

		stage.Missed = true
		stage.Messages = append(stage.Messages, fmt.Sprintf("%s missed their attack!", displayName(attacker)))

		return stage, false
	}

	if move.Power > 0 {
		stage.Effectiveness = EffectivenessOf(move.Type, defender.Types)
		stage.Crit = rng.Float64() < CRIT_CHANCE

		damage := moveDamage(attacker, defender, move, stage.Effectiveness, stage.Crit)
		stage.Damage = damage

		defender.Hp -= damage
		if defender.Hp <= 0 {
			stage.Fainted = true
		}

		resolverLogger().Info("damage dealt",
			"attacker", attacker.ID,
			"defender", defender.ID,
			"move", move.ID,
			"damage", damage,
			"crit", stage.Crit,
			"effectiveness", stage.Effectiveness,
			"defender_hp", defender.Hp,
		)

		shownHp := defender.Hp
		if shownHp < 0 {
			shownHp = 0
		}
		stage.Messages = append(stage.Messages, fmt.Sprintf("%s took %d damage! (%d HP left)", displayName(defender), damage, shownHp))

		switch stage.Effectiveness {
		case EFFECTIVENESS_SUPER:
			stage.Messages = append(stage.Messages, "It was super effective!")
		case EFFECTIVENESS_NOT:
			stage.Messages = append(stage.Messages, "It was not very effective...")
		}

		if stage.Crit {
			stage.Messages = append(stage.Messages, "A critical hit!")
		}

		if stage.Fainted {
			stage.Messages = append(stage.Messages, fmt.Sprintf("%s fainted!", displayName(defender)))

			// no effects land on a fainting defender
			return stage, false
		}

		if move.Heal > 0 {
			healed := int(math.Floor(float64(damage) * move.Heal))
			attacker.Hp += healed
			if attacker.Hp > attacker.MaxHp {
				attacker.Hp = attacker.MaxHp
			}

			stage.Messages = append(stage.Messages, fmt.Sprintf("%s drained %d HP!", displayName(attacker), healed))
		}

		if move.Recoil > 0 {
			recoil := int(math.Floor(float64(damage) * move.Recoil))
			attacker.Hp -= recoil

			stage.Messages = append(stage.Messages, fmt.Sprintf("%s took %d recoil damage!", displayName(attacker), recoil))
			if !attacker.Alive() {
				stage.Messages = append(stage.Messages, fmt.Sprintf("%s fainted!", displayName(attacker)))
			}
		}
	}

	if defender.Status == STATUS_NONE {
		for _, status := range statusCheckOrder {
			chance, configured := move.StatusEffects[statusNames[status]]
			if !configured || chance <= 0 {
				continue
			}

			if rng.IntN(100) <= chance {
				defender.ApplyStatus(status)
				stage.InflictedStatus = status
				stage.Messages = append(stage.Messages, fmt.Sprintf(statusAppliedMessages[status], displayName(defender)))

				resolverLogger().Info("status applied", "defender", defender.ID, "status", statusNames[status], "chance", chance)

				break
			}
		}
	}

	if len(move.UserStatChanges) > 0 {
		applyStatStages(&stage, attackerPlayer, move.UserStatChanges)
	}

	if len(move.OpponentStatChanges) > 0 {
		applyStatStages(&stage, defenderPlayer, move.OpponentStatChanges)
	}

	flinched := false
	if move.FlinchChance > 0 && defender.Alive() && rng.IntN(100) < move.FlinchChance {
		flinched = true
	}

	return stage, flinched
}

// moveDamage computes the damage of a hit, flooring after every
// multiplication so integer outputs match the original chain of
// floored multiplications exactly.
func moveDamage(attacker, defender *Combatant, move Move, effectiveness string, crit bool) int {
	damage := math.Floor(float64(attacker.Attack.Value) / float64(defender.Defense.Value) * float64(move.Power))
	damage = math.Floor(damage * effectivenessMultipliers[effectiveness])

	if attacker.HasType(move.Type) {
		damage = math.Floor(damage * STAB_MULTIPLIER)
	}

	if crit {
		damage = math.Floor(damage * 1.5)
	}

	return int(damage)
}

var statApplyOrder = [...]string{STAT_ATTACK, STAT_DEFENSE, STAT_SPEED}

func applyStatStages(stage *TurnStage, player *PlayerState, deltas map[string]int) {
	combatant := player.OnField()

	for _, statName := range statApplyOrder {
		delta, ok := deltas[statName]
		if !ok || delta == 0 {
			continue
		}

		stat := combatant.statByName(statName)
		if stat == nil {
			continue
		}

		applied := stat.ChangeStage(delta)

		change := StatChange{
			Stat:    statName,
			Stage:   stat.Stage,
			Value:   stat.Value,
			Clamped: applied == 0,
		}

		if stage.StatChanges == nil {
			stage.StatChanges = make(map[string][]StatChange)
		}
		stage.StatChanges[player.ID] = append(stage.StatChanges[player.ID], change)

		name := displayName(combatant)
		switch {
		case applied == 0 && delta > 0:
			stage.Messages = append(stage.Messages, fmt.Sprintf("%s's %s cannot go any higher!", name, statName))
		case applied == 0 && delta < 0:
			stage.Messages = append(stage.Messages, fmt.Sprintf("%s's %s cannot go any lower!", name, statName))
		case applied > 0:
			stage.Messages = append(stage.Messages, fmt.Sprintf("%s's %s increased by %d stages!", name, statName, applied))
		default:
			stage.Messages = append(stage.Messages, fmt.Sprintf("%s's %s decreased by %d stages!", name, statName, -applied))
		}
	}
}

func (c *Combatant) statByName(name string) *Stat {
	switch name {
	case STAT_ATTACK:
		return &c.Attack
	case STAT_DEFENSE:
		return &c.Defense
	case STAT_SPEED:
		return &c.Speed
	}

	return nil
}

// applyStatusChip deals the flat end-of-turn burn/poison damage to a
// statused combatant and returns the narration for it.
func applyStatusChip(combatant *Combatant) []string {
	if combatant == nil || !combatant.Alive() {
		return nil
	}

	chip, ok := statusChipDamage[combatant.Status]
	if !ok {
		return nil
	}

	combatant.Hp -= chip

	var cause string
	if combatant.Status == STATUS_BURN {
		cause = "its burn"
	} else {
		cause = "poison"
	}

	messages := []string{fmt.Sprintf("%s was hurt by %s! (%d damage)", displayName(combatant), cause, chip)}
	if !combatant.Alive() {
		messages = append(messages, fmt.Sprintf("%s fainted!", displayName(combatant)))
	}

	return messages
}
