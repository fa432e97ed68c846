package brackets

import (
	"errors"

	"github.com/Dosada05/kicker-tournament/models"
)

var (
	ErrInvalidRoster       = errors.New("an even number of at least 4 players is required")
	ErrNoTeams             = errors.New("cannot generate bracket with zero teams")
	ErrMatchNotFound       = errors.New("match not found in bracket")
	ErrMatchNotReady       = errors.New("match does not have two teams yet")
	ErrMatchAlreadyDecided = errors.New("match already has a winner")
	ErrTieScore            = errors.New("scores must differ, draws are not allowed")
	ErrInvalidScore        = errors.New("scores must not be negative")
)

// BracketGenerator lays out every round of a bracket from seeded teams.
type BracketGenerator interface {
	GenerateBracket(teams []models.Team) ([]models.Round, error)

	GetName() string
}
