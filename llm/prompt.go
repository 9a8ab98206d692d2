package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a precise data extraction engine. You read web page text " +
	"and return football league standings as JSON. Respond with a single JSON object " +
	"and nothing else."

// schemaDescription tells the model the exact payload shape the schema
// package accepts.
const schemaDescription = `Return a JSON object with this exact shape:
{
  "sport": "football",
  "league": "<league name>",
  "season": "<season label if shown, otherwise omit>",
  "standings": [
    {
      "position": 1,
      "team_name": "...",
      "matches_played": 0,
      "wins": 0,
      "draws": 0,
      "losses": 0,
      "goals_for": 0,
      "goals_against": 0,
      "goal_difference": 0,
      "points": 0
    }
  ]
}
All numeric fields are integers. "position" starts at 1 and increases by one
per row. "goal_difference" may be negative.`

// maxContentChars caps how much page text travels with one request. It keeps
// the prompt inside the context window of every supported model.
const maxContentChars = 100_000

// Instruction phrases the extraction request for one league.
func Instruction(league string) string {
	return fmt.Sprintf(`Extract the complete current league table/standings for %s.

The table should include:
- Position (1st, 2nd, 3rd, etc.)
- Team name
- Matches played (MP)
- Wins (W)
- Draws (D)
- Losses (L)
- Goals for (GF)
- Goals against (GA)
- Goal difference (GD)
- Points (Pts)

Extract ALL teams in the league table, typically 18-20 teams for top European leagues.
Ensure the standings are ordered by position (1st place first, etc.).
Be thorough and accurate. If you see a league table on the page, extract it completely.`, league)
}

// BuildPrompt combines the instruction, the schema description and the
// distilled page content into one user message.
func BuildPrompt(league, content string) string {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	var b strings.Builder
	b.WriteString(Instruction(league))
	b.WriteString("\n\n")
	b.WriteString(schemaDescription)
	b.WriteString("\n\nPage content:\n")
	b.WriteString(content)
	return b.String()
}
