// Package models defines data structures for league table extraction.
package models

// LeagueTableEntry represents a single team's row in the league table.
type LeagueTableEntry struct {
	Position       int    `json:"position" validate:"min=1"`
	TeamName       string `json:"team_name" validate:"required"`
	MatchesPlayed  int    `json:"matches_played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points" validate:"min=0"`
}

// LeagueTableData is one extraction result: a full standings table for a league.
// Standings are ordered by ascending position.
type LeagueTableData struct {
	Sport     string             `json:"sport" validate:"required"`
	League    string             `json:"league" validate:"required"`
	Season    string             `json:"season,omitempty"`
	Standings []LeagueTableEntry `json:"standings" validate:"unique=Position,dive"`
}

// TeamCount returns the number of teams in the table.
func (d *LeagueTableData) TeamCount() int {
	return len(d.Standings)
}

// TopTeam returns the entry at the top of the table, or nil if the table is empty.
func (d *LeagueTableData) TopTeam() *LeagueTableEntry {
	if len(d.Standings) == 0 {
		return nil
	}
	return &d.Standings[0]
}
