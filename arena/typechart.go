package arena

// typeChart maps an attacking type to the defending types it is super
// effective or not very effective against. Absent entries are neutral.
var typeChart = map[string]map[string]string{
	TYPENAME_NORMAL: {},
	TYPENAME_FIRE: {
		TYPENAME_GRASS:  EFFECTIVENESS_SUPER,
		TYPENAME_ICE:    EFFECTIVENESS_SUPER,
		TYPENAME_BUG:    EFFECTIVENESS_SUPER,
		TYPENAME_STEEL:  EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:   EFFECTIVENESS_NOT,
		TYPENAME_DRAGON: EFFECTIVENESS_NOT,
		TYPENAME_FIRE:   EFFECTIVENESS_NOT,
		TYPENAME_WATER:  EFFECTIVENESS_NOT,
		TYPENAME_GROUND: EFFECTIVENESS_NOT,
	},
	TYPENAME_WATER: {
		TYPENAME_FIRE:     EFFECTIVENESS_SUPER,
		TYPENAME_GROUND:   EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:     EFFECTIVENESS_SUPER,
		TYPENAME_WATER:    EFFECTIVENESS_NOT,
		TYPENAME_GRASS:    EFFECTIVENESS_NOT,
		TYPENAME_DRAGON:   EFFECTIVENESS_NOT,
		TYPENAME_ELECTRIC: EFFECTIVENESS_NOT,
	},
	TYPENAME_GRASS: {
		TYPENAME_WATER:  EFFECTIVENESS_SUPER,
		TYPENAME_GROUND: EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:   EFFECTIVENESS_SUPER,
		TYPENAME_GRASS:  EFFECTIVENESS_NOT,
		TYPENAME_FIRE:   EFFECTIVENESS_NOT,
		TYPENAME_BUG:    EFFECTIVENESS_NOT,
		TYPENAME_DRAGON: EFFECTIVENESS_NOT,
		TYPENAME_FLYING: EFFECTIVENESS_NOT,
		TYPENAME_POISON: EFFECTIVENESS_NOT,
		TYPENAME_STEEL:  EFFECTIVENESS_NOT,
	},
	TYPENAME_ELECTRIC: {
		TYPENAME_WATER:    EFFECTIVENESS_SUPER,
		TYPENAME_FLYING:   EFFECTIVENESS_SUPER,
		TYPENAME_ELECTRIC: EFFECTIVENESS_NOT,
		TYPENAME_GROUND:   EFFECTIVENESS_NOT,
	},
	TYPENAME_ICE: {
		TYPENAME_GRASS:  EFFECTIVENESS_SUPER,
		TYPENAME_GROUND: EFFECTIVENESS_SUPER,
		TYPENAME_FLYING: EFFECTIVENESS_SUPER,
		TYPENAME_DRAGON: EFFECTIVENESS_SUPER,
		TYPENAME_FIRE:   EFFECTIVENESS_NOT,
		TYPENAME_WATER:  EFFECTIVENESS_NOT,
		TYPENAME_ICE:    EFFECTIVENESS_NOT,
		TYPENAME_STEEL:  EFFECTIVENESS_NOT,
	},
	TYPENAME_FIGHTING: {
		TYPENAME_NORMAL:  EFFECTIVENESS_SUPER,
		TYPENAME_ICE:     EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:    EFFECTIVENESS_SUPER,
		TYPENAME_DARK:    EFFECTIVENESS_SUPER,
		TYPENAME_STEEL:   EFFECTIVENESS_NOT,
		TYPENAME_FLYING:  EFFECTIVENESS_NOT,
		TYPENAME_POISON:  EFFECTIVENESS_NOT,
		TYPENAME_PSYCHIC: EFFECTIVENESS_NOT,
		TYPENAME_FAIRY:   EFFECTIVENESS_NOT,
	},
	TYPENAME_POISON: {
		TYPENAME_GRASS:  EFFECTIVENESS_SUPER,
		TYPENAME_FAIRY:  EFFECTIVENESS_SUPER,
		TYPENAME_POISON: EFFECTIVENESS_NOT,
		TYPENAME_GROUND: EFFECTIVENESS_NOT,
		TYPENAME_ROCK:   EFFECTIVENESS_NOT,
		TYPENAME_GHOST:  EFFECTIVENESS_NOT,
	},
	TYPENAME_GROUND: {
		TYPENAME_FIRE:     EFFECTIVENESS_SUPER,
		TYPENAME_ELECTRIC: EFFECTIVENESS_SUPER,
		TYPENAME_POISON:   EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:     EFFECTIVENESS_SUPER,
		TYPENAME_STEEL:    EFFECTIVENESS_SUPER,
		TYPENAME_FLYING:   EFFECTIVENESS_NOT,
		TYPENAME_BUG:      EFFECTIVENESS_NOT,
		TYPENAME_GRASS:    EFFECTIVENESS_NOT,
	},
	TYPENAME_FLYING: {
		TYPENAME_GRASS:    EFFECTIVENESS_SUPER,
		TYPENAME_FIGHTING: EFFECTIVENESS_SUPER,
		TYPENAME_BUG:      EFFECTIVENESS_SUPER,
		TYPENAME_FLYING:   EFFECTIVENESS_NOT,
		TYPENAME_ELECTRIC: EFFECTIVENESS_NOT,
		TYPENAME_ROCK:     EFFECTIVENESS_NOT,
	},
	TYPENAME_PSYCHIC: {
		TYPENAME_FIGHTING: EFFECTIVENESS_SUPER,
		TYPENAME_POISON:   EFFECTIVENESS_SUPER,
		TYPENAME_PSYCHIC:  EFFECTIVENESS_NOT,
		TYPENAME_DARK:     EFFECTIVENESS_NOT,
		TYPENAME_STEEL:    EFFECTIVENESS_NOT,
	},
	TYPENAME_BUG: {
		TYPENAME_GRASS:    EFFECTIVENESS_SUPER,
		TYPENAME_PSYCHIC:  EFFECTIVENESS_SUPER,
		TYPENAME_DARK:     EFFECTIVENESS_SUPER,
		TYPENAME_FIRE:     EFFECTIVENESS_NOT,
		TYPENAME_FIGHTING: EFFECTIVENESS_NOT,
		TYPENAME_FLYING:   EFFECTIVENESS_NOT,
		TYPENAME_POISON:   EFFECTIVENESS_NOT,
		TYPENAME_GHOST:    EFFECTIVENESS_NOT,
		TYPENAME_STEEL:    EFFECTIVENESS_NOT,
		TYPENAME_FAIRY:    EFFECTIVENESS_NOT,
	},
	TYPENAME_ROCK: {
		TYPENAME_FIRE:     EFFECTIVENESS_SUPER,
		TYPENAME_ICE:      EFFECTIVENESS_SUPER,
		TYPENAME_FLYING:   EFFECTIVENESS_SUPER,
		TYPENAME_BUG:      EFFECTIVENESS_SUPER,
		TYPENAME_FIGHTING: EFFECTIVENESS_NOT,
		TYPENAME_GROUND:   EFFECTIVENESS_NOT,
		TYPENAME_STEEL:    EFFECTIVENESS_NOT,
	},
	TYPENAME_GHOST: {
		TYPENAME_PSYCHIC: EFFECTIVENESS_SUPER,
		TYPENAME_GHOST:   EFFECTIVENESS_SUPER,
		TYPENAME_DARK:    EFFECTIVENESS_NOT,
		TYPENAME_NORMAL:  EFFECTIVENESS_NOT,
	},
	TYPENAME_DRAGON: {
		TYPENAME_DRAGON: EFFECTIVENESS_SUPER,
		TYPENAME_STEEL:  EFFECTIVENESS_NOT,
		TYPENAME_FAIRY:  EFFECTIVENESS_NOT,
	},
	TYPENAME_DARK: {
		TYPENAME_PSYCHIC:  EFFECTIVENESS_SUPER,
		TYPENAME_GHOST:    EFFECTIVENESS_SUPER,
		TYPENAME_FIGHTING: EFFECTIVENESS_NOT,
		TYPENAME_DARK:     EFFECTIVENESS_NOT,
		TYPENAME_FAIRY:    EFFECTIVENESS_NOT,
	},
	TYPENAME_STEEL: {
		TYPENAME_ICE:      EFFECTIVENESS_SUPER,
		TYPENAME_ROCK:     EFFECTIVENESS_SUPER,
		TYPENAME_FAIRY:    EFFECTIVENESS_SUPER,
		TYPENAME_STEEL:    EFFECTIVENESS_NOT,
		TYPENAME_FIRE:     EFFECTIVENESS_NOT,
		TYPENAME_WATER:    EFFECTIVENESS_NOT,
		TYPENAME_ELECTRIC: EFFECTIVENESS_NOT,
	},
	TYPENAME_FAIRY: {
		TYPENAME_FIGHTING: EFFECTIVENESS_SUPER,
		TYPENAME_DRAGON:   EFFECTIVENESS_SUPER,
		TYPENAME_DARK:     EFFECTIVENESS_SUPER,
		TYPENAME_POISON:   EFFECTIVENESS_NOT,
		TYPENAME_STEEL:    EFFECTIVENESS_NOT,
		TYPENAME_FIRE:     EFFECTIVENESS_NOT,
	},
}

// EffectivenessOf folds the chart entries for each defending type into
// a single tier. Opposite findings across a dual typing cancel to
// neutral, a finding against an existing neutral wins, and same-tier
// findings are idempotent. This is deliberately not the multiplicative
// 0.25x/4x model: the damage step expects exactly one of three tiers.
func EffectivenessOf(attackingType string, defendingTypes []string) string {
	result := EFFECTIVENESS_NEUTRAL

	row := typeChart[attackingType]

	for _, defendingType := range defendingTypes {
		finding, ok := row[defendingType]
		if !ok {
			finding = EFFECTIVENESS_NEUTRAL
		}

		switch {
		case finding == EFFECTIVENESS_NEUTRAL:
			// keep running result
		case result == EFFECTIVENESS_NEUTRAL:
			result = finding
		case result != finding:
			result = EFFECTIVENESS_NEUTRAL
		}
	}

	return result
}
