package brackets

import (
	"fmt"

	"github.com/Dosada05/kicker-tournament/models"
)

// Progression is the outcome of recording a result. Champion is set only when
// the final was decided.
type Progression struct {
	Rounds   []models.Round
	Champion *models.Team
}

// RecordResult stores the score of one match, decides its winner and moves the
// winner into the next round. The passed rounds are left untouched; the
// returned Progression carries an updated copy.
func RecordResult(rounds []models.Round, roundIndex, matchIndex, scoreA, scoreB int) (Progression, error) {
	if roundIndex < 0 || roundIndex >= len(rounds) ||
		matchIndex < 0 || matchIndex >= len(rounds[roundIndex]) {
		return Progression{}, fmt.Errorf("%w: round %d, match %d", ErrMatchNotFound, roundIndex, matchIndex)
	}

	target := rounds[roundIndex][matchIndex]
	if !target.Ready() {
		return Progression{}, fmt.Errorf("%w: round %d, match %d", ErrMatchNotReady, roundIndex, matchIndex)
	}
	if target.Decided() {
		return Progression{}, fmt.Errorf("%w: round %d, match %d", ErrMatchAlreadyDecided, roundIndex, matchIndex)
	}
	if scoreA < 0 || scoreB < 0 {
		return Progression{}, fmt.Errorf("%w: %d:%d", ErrInvalidScore, scoreA, scoreB)
	}
	if scoreA == scoreB {
		return Progression{}, fmt.Errorf("%w: %d:%d", ErrTieScore, scoreA, scoreB)
	}

	updated := models.CloneRounds(rounds)
	match := &updated[roundIndex][matchIndex]
	match.ScoreA = &scoreA
	match.ScoreB = &scoreB
	if scoreA > scoreB {
		match.Winner = match.TeamA
	} else {
		match.Winner = match.TeamB
	}

	result := Progression{Rounds: updated}
	if roundIndex < len(updated)-1 {
		advance(updated, roundIndex, matchIndex, match.Winner)
	} else {
		champion := *match.Winner
		result.Champion = &champion
	}
	return result, nil
}
