package models

// Match is one pairing in a round. TeamA and TeamB stay nil until filled by
// initial seeding or by the winner of a previous-round match.
type Match struct {
	ID     string `json:"id"`
	TeamA  *Team  `json:"teamA"`
	TeamB  *Team  `json:"teamB"`
	ScoreA *int   `json:"scoreA"`
	ScoreB *int   `json:"scoreB"`
	Winner *Team  `json:"winner"`
	IsBye  bool   `json:"isBye"`
}

// Round is ordered: match m feeds match m/2 of the next round.
type Round []Match

// Ready reports whether both slots are filled.
func (m *Match) Ready() bool {
	return m.TeamA != nil && m.TeamB != nil
}

// Decided reports whether the match already has a winner.
func (m *Match) Decided() bool {
	return m.Winner != nil
}

func (m Match) clone() Match {
	c := m
	c.TeamA = m.TeamA.clone()
	c.TeamB = m.TeamB.clone()
	c.Winner = m.Winner.clone()
	if m.ScoreA != nil {
		a := *m.ScoreA
		c.ScoreA = &a
	}
	if m.ScoreB != nil {
		b := *m.ScoreB
		c.ScoreB = &b
	}
	return c
}

// CloneRounds returns a deep copy of a bracket.
func CloneRounds(rounds []Round) []Round {
	if rounds == nil {
		return nil
	}
	out := make([]Round, len(rounds))
	for r, round := range rounds {
		out[r] = make(Round, len(round))
		for m, match := range round {
			out[r][m] = match.clone()
		}
	}
	return out
}
