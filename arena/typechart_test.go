package arena

import "testing"

func TestEffectivenessSingleType(t *testing.T) {
	cases := []struct {
		attacking string
		defending string
		want      string
	}{
		{TYPENAME_FIRE, TYPENAME_GRASS, EFFECTIVENESS_SUPER},
		{TYPENAME_FIRE, TYPENAME_WATER, EFFECTIVENESS_NOT},
		{TYPENAME_FIRE, TYPENAME_NORMAL, EFFECTIVENESS_NEUTRAL},
		{TYPENAME_NORMAL, TYPENAME_NORMAL, EFFECTIVENESS_NEUTRAL},
		{TYPENAME_ELECTRIC, TYPENAME_WATER, EFFECTIVENESS_SUPER},
		{TYPENAME_GRASS, TYPENAME_FLYING, EFFECTIVENESS_NOT},
	}

	for _, tc := range cases {
		got := EffectivenessOf(tc.attacking, []string{tc.defending})
		if got != tc.want {
			t.Errorf("%s vs %s: expected %s, got %s", tc.attacking, tc.defending, tc.want, got)
		}
	}
}

func TestEffectivenessDualType(t *testing.T) {
	cases := []struct {
		name      string
		attacking string
		defending []string
		want      string
	}{
		// opposite findings cancel
		{"super and not cancel", TYPENAME_GRASS, []string{TYPENAME_WATER, TYPENAME_FLYING}, EFFECTIVENESS_NEUTRAL},
		// a finding beats a neutral regardless of order
		{"super after neutral", TYPENAME_WATER, []string{TYPENAME_NORMAL, TYPENAME_FIRE}, EFFECTIVENESS_SUPER},
		{"super before neutral", TYPENAME_WATER, []string{TYPENAME_FIRE, TYPENAME_NORMAL}, EFFECTIVENESS_SUPER},
		{"not with neutral", TYPENAME_FIRE, []string{TYPENAME_WATER, TYPENAME_NORMAL}, EFFECTIVENESS_NOT},
		// same tier twice stays that tier
		{"double super", TYPENAME_GRASS, []string{TYPENAME_WATER, TYPENAME_GROUND}, EFFECTIVENESS_SUPER},
		{"double not", TYPENAME_FIRE, []string{TYPENAME_WATER, TYPENAME_ROCK}, EFFECTIVENESS_NOT},
	}

	for _, tc := range cases {
		got := EffectivenessOf(tc.attacking, tc.defending)
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestEffectivenessUnknownTypesAreNeutral(t *testing.T) {
	if got := EffectivenessOf("plasma", []string{TYPENAME_FIRE}); got != EFFECTIVENESS_NEUTRAL {
		t.Fatalf("unknown attacking type should be neutral, got %s", got)
	}

	if got := EffectivenessOf(TYPENAME_FIRE, []string{"plasma"}); got != EFFECTIVENESS_NEUTRAL {
		t.Fatalf("unknown defending type should be neutral, got %s", got)
	}
}
