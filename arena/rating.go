package arena

// RatingUpdate is the new rating state for one player after a battle,
// handed to the external rating store.
type RatingUpdate struct {
	PlayerID     string
	Points       int
	Rank         string
	WinLossDelta int
}

// RankForPoints returns the highest rank whose threshold the point
// total meets. Recomputing from the ladder subsumes both the
// promotion and demotion tables.
func RankForPoints(points int) string {
	rank := rankLadder[0].Rank
	for _, step := range rankLadder {
		if points >= step.Points {
			rank = step.Rank
		}
	}

	return rank
}

// ratingOutcome computes both players' post-battle rating state for an
// ending reason. The winner gains the reason's point delta, the loser
// drops by the same amount floored at zero; ranks follow the ladder.
func ratingOutcome(winner, loser *PlayerState, reason EndReason) (RatingUpdate, RatingUpdate) {
	delta := endReasonPoints[reason]

	winnerPoints := winner.Points + delta
	loserPoints := loser.Points - delta
	if loserPoints < 0 {
		loserPoints = 0
	}

	winnerUpdate := RatingUpdate{
		PlayerID:     winner.ID,
		Points:       winnerPoints,
		Rank:         RankForPoints(winnerPoints),
		WinLossDelta: 1,
	}
	loserUpdate := RatingUpdate{
		PlayerID:     loser.ID,
		Points:       loserPoints,
		Rank:         RankForPoints(loserPoints),
		WinLossDelta: -1,
	}

	return winnerUpdate, loserUpdate
}
