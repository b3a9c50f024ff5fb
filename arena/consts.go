package arena

const (
	TYPENAME_NORMAL   = "normal"
	TYPENAME_FIRE     = "fire"
	TYPENAME_WATER    = "water"
	TYPENAME_ELECTRIC = "electric"
	TYPENAME_GRASS    = "grass"
	TYPENAME_ICE      = "ice"
	TYPENAME_FIGHTING = "fighting"
	TYPENAME_POISON   = "poison"
	TYPENAME_GROUND   = "ground"
	TYPENAME_FLYING   = "flying"
	TYPENAME_PSYCHIC  = "psychic"
	TYPENAME_BUG      = "bug"
	TYPENAME_ROCK     = "rock"
	TYPENAME_GHOST    = "ghost"
	TYPENAME_DRAGON   = "dragon"
	TYPENAME_DARK     = "dark"
	TYPENAME_STEEL    = "steel"
	TYPENAME_FAIRY    = "fairy"
)

const (
	STATUS_NONE = iota
	STATUS_PARA
	STATUS_POISON
	STATUS_BURN
	STATUS_FROZEN
	STATUS_SLEEP
)

// statusCheckOrder is the fixed order moves attempt to inflict their
// status conditions in. Only the first configured status that passes
// its roll is applied.
var statusCheckOrder = [...]int{STATUS_PARA, STATUS_POISON, STATUS_BURN, STATUS_FROZEN, STATUS_SLEEP}

var statusNames = map[int]string{
	STATUS_NONE:   "none",
	STATUS_PARA:   "paralyze",
	STATUS_POISON: "poison",
	STATUS_BURN:   "burn",
	STATUS_FROZEN: "freeze",
	STATUS_SLEEP:  "sleep",
}

var statusAppliedMessages = map[int]string{
	STATUS_PARA:   "%s has been paralyzed!",
	STATUS_POISON: "%s has been poisoned!",
	STATUS_BURN:   "%s has been burned!",
	STATUS_FROZEN: "%s has been frozen!",
	STATUS_SLEEP:  "%s has fallen asleep!",
}

// Flat end-of-turn chip damage per status condition.
var statusChipDamage = map[int]int{
	STATUS_BURN:   5,
	STATUS_POISON: 10,
}

const (
	DAMAGETYPE_DAMAGE = "damage"
	DAMAGETYPE_STATUS = "status"
)

const (
	STAT_ATTACK  = "attack"
	STAT_DEFENSE = "defense"
	STAT_SPEED   = "speed"
)

const (
	MAX_STAT_STAGE = 6
	MIN_STAT_STAGE = -6
)

// Multipliers applied to the current stat value when a stage change is
// applied, indexed by the magnitude of the applied delta. Deltas larger
// than the table clamp to its last entry.
var posStageMultipliers = map[int]float64{
	0: 1,
	1: 1.5,
	2: 2,
	3: 2.5,
	4: 3,
}

var negStageMultipliers = map[int]float64{
	0: 1,
	1: 0.66,
	2: 0.5,
	3: 0.4,
	4: 0.33,
}

// Effective speed multiplier per move priority tier.
var priorityMultipliers = map[int]float64{
	0: 1,
	1: 1.5,
	2: 2,
	3: 2.5,
	4: 3,
}

const CRIT_CHANCE = 0.1

const (
	EFFECTIVENESS_NEUTRAL = "neutral"
	EFFECTIVENESS_SUPER   = "super-effective"
	EFFECTIVENESS_NOT     = "not-very-effective"
)

var effectivenessMultipliers = map[string]float64{
	EFFECTIVENESS_SUPER:   1.5,
	EFFECTIVENESS_NOT:     0.5,
	EFFECTIVENESS_NEUTRAL: 1,
}

const STAB_MULTIPLIER = 1.5

type BattleStatus string

const (
	BATTLE_WAITING    BattleStatus = "waiting"
	BATTLE_STARTING   BattleStatus = "starting"
	BATTLE_INPROGRESS BattleStatus = "in-progress"
	BATTLE_COMPLETED  BattleStatus = "completed"
)

type EndReason string

const (
	END_TIMEOUT     EndReason = "timeout"
	END_SURRENDER   EndReason = "surrender"
	END_DISCONNECT  EndReason = "disconnect"
	END_ALL_FAINTED EndReason = "all-pokemon-fainted"
)

// Rating points gained by the winner and lost by the loser per ending reason.
var endReasonPoints = map[EndReason]int{
	END_TIMEOUT:     10,
	END_DISCONNECT:  5,
	END_SURRENDER:   15,
	END_ALL_FAINTED: 20,
}

const (
	RANK_BRONZE   = "bronze"
	RANK_SILVER   = "silver"
	RANK_GOLD     = "gold"
	RANK_PLATINUM = "platinum"
	RANK_DIAMOND  = "diamond"
	RANK_ELITE    = "elite"
)

// rankLadder is ordered lowest to highest; a player holds the highest
// rank whose threshold their points meet.
var rankLadder = []struct {
	Rank   string
	Points int
}{
	{RANK_BRONZE, 0},
	{RANK_SILVER, 100},
	{RANK_GOLD, 400},
	{RANK_PLATINUM, 800},
	{RANK_DIAMOND, 1400},
	{RANK_ELITE, 2000},
}

const (
	BATTLE_ID_LENGTH      = 8
	DEFAULT_BATTLE_TIME   = 180
	MOVESET_SIZE          = 4
	TIMER_WARN_THRESHOLDS = 5
)

// Timer warning thresholds in seconds, highest first. Each fires once
// per player per battle.
var timerThresholds = [TIMER_WARN_THRESHOLDS]int{120, 60, 30, 10, 0}
