package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TournamentState is the lifecycle state stored with every snapshot.
type TournamentState string

const (
	StateRegistration TournamentState = "REGISTRATION"
	StateTeamsFormed  TournamentState = "TEAMS_FORMED"
	StateInProgress   TournamentState = "IN_PROGRESS"
	StateFinished     TournamentState = "FINISHED"

	// legacyStateTeamsView is what older snapshots carry instead of TEAMS_FORMED.
	legacyStateTeamsView TournamentState = "TEAMS_VIEW"
)

// TournamentIDLayout formats creation timestamps into tournament ids. Ids sort
// lexically in creation order.
const TournamentIDLayout = "2006-01-02T15:04:05.000Z07:00"

func (s TournamentState) Valid() bool {
	switch s {
	case StateRegistration, StateTeamsFormed, StateInProgress, StateFinished:
		return true
	}
	return false
}

func (s *TournamentState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	state := TournamentState(raw)
	switch {
	case state == "":
		state = StateRegistration
	case state == legacyStateTeamsView:
		state = StateTeamsFormed
	case !state.Valid():
		return fmt.Errorf("unknown tournament state %q", raw)
	}
	*s = state
	return nil
}

// Tournament is the persisted snapshot of one tournament.
type Tournament struct {
	ID              string          `json:"id"`
	Players         []Player        `json:"players"`
	Teams           []Team          `json:"teams"`
	Rounds          []Round         `json:"rounds"`
	TournamentState TournamentState `json:"tournamentState"`
	Winner          *Team           `json:"winner"`
}

// NewTournamentID derives a tournament id from its creation time.
func NewTournamentID(now time.Time) string {
	return now.UTC().Format(TournamentIDLayout)
}

// CreatedAt parses the creation time back out of the id.
func (t *Tournament) CreatedAt() (time.Time, bool) {
	ts, err := time.Parse(TournamentIDLayout, t.ID)
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, t.ID)
		if err != nil {
			return time.Time{}, false
		}
	}
	return ts, true
}

// Summary is the short form shown in the tournament history.
func (t *Tournament) Summary() TournamentSummary {
	s := TournamentSummary{
		ID:              t.ID,
		PlayerCount:     len(t.Players),
		TournamentState: t.TournamentState,
	}
	if ts, ok := t.CreatedAt(); ok {
		s.CreatedAt = &ts
	}
	if t.Winner != nil {
		name := t.Winner.Name
		s.WinnerName = &name
	}
	return s
}

type TournamentSummary struct {
	ID              string          `json:"id"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	PlayerCount     int             `json:"player_count"`
	TournamentState TournamentState `json:"tournament_state"`
	WinnerName      *string         `json:"winner_name,omitempty"`
}
