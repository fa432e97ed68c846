package models

// Team is a frozen pair of players. Players are copied at formation time so a
// team never changes once the bracket exists.
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Players [2]Player `json:"players"`
	Skill   int       `json:"skill"`
	Seed    *int      `json:"seed,omitempty"`
}

func (t *Team) clone() *Team {
	if t == nil {
		return nil
	}
	c := *t
	if t.Seed != nil {
		seed := *t.Seed
		c.Seed = &seed
	}
	return &c
}
