package models

const (
	MinSkill = 1
	MaxSkill = 5
)

// Player is a registered individual. Players are never edited, only removed
// while the tournament is still in registration.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Skill int    `json:"skill"`
}
