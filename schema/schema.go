// Package schema validates raw extraction payloads against the league table
// model. Decoding is a pure function from payload to validated model or an
// error enumerating every violation.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ligawatch/go-scrape-standings/models"
)

var validate = validator.New()

// entryAliases maps the short column names extraction models commonly emit to
// the canonical long field names. Canonical names always win over aliases.
var entryAliases = map[string]string{
	"pos":    "position",
	"team":   "team_name",
	"mp":     "matches_played",
	"played": "matches_played",
	"w":      "wins",
	"won":    "wins",
	"d":      "draws",
	"drawn":  "draws",
	"l":      "losses",
	"lost":   "losses",
	"gf":     "goals_for",
	"ga":     "goals_against",
	"gd":     "goal_difference",
	"pts":    "points",
}

// ValidationError enumerates the schema violations found in a payload.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "schema: invalid payload"
	}
	return fmt.Sprintf("schema: %d violation(s): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// Decode converts an untrusted extraction payload into a validated
// LeagueTableData. Field aliases (mp, gf, ga, gd, ...) are accepted
// interchangeably with the canonical names, numeric values may arrive as JSON
// numbers or strings, and team names are trimmed. Any violation rejects the
// payload with a *ValidationError listing every offending field and record.
func Decode(payload map[string]any) (*models.LeagueTableData, error) {
	if len(payload) == 0 {
		return nil, &ValidationError{Violations: []string{"payload is empty"}}
	}

	fields := normalizeFields(payload, nil)
	verr := &ValidationError{}
	data := &models.LeagueTableData{}

	if v, ok := fields["sport"]; ok && v != nil {
		if s, err := stringValue(v); err != nil {
			verr.add("sport: %v", err)
		} else {
			data.Sport = strings.TrimSpace(s)
		}
	}
	if v, ok := fields["league"]; ok && v != nil {
		if s, err := stringValue(v); err != nil {
			verr.add("league: %v", err)
		} else {
			data.League = strings.TrimSpace(s)
		}
	}
	if v, ok := fields["season"]; ok && v != nil {
		if s, err := stringValue(v); err != nil {
			verr.add("season: %v", err)
		} else {
			data.Season = strings.TrimSpace(s)
		}
	}

	raw, ok := fields["standings"]
	if !ok || raw == nil {
		verr.add("standings: missing")
	} else if list, ok := raw.([]any); !ok {
		verr.add("standings: expected a list, got %T", raw)
	} else {
		data.Standings = make([]models.LeagueTableEntry, 0, len(list))
		for i, item := range list {
			record, ok := item.(map[string]any)
			if !ok {
				verr.add("standings[%d]: expected an object, got %T", i, item)
				continue
			}
			entry, errs := decodeEntry(record)
			if len(errs) > 0 {
				for _, msg := range errs {
					verr.add("standings[%d]: %s", i, msg)
				}
				continue
			}
			data.Standings = append(data.Standings, entry)
		}
	}

	if len(verr.Violations) > 0 {
		return nil, verr
	}
	if err := validate.Struct(data); err != nil {
		return nil, translateValidatorError(err)
	}
	return data, nil
}

func decodeEntry(record map[string]any) (models.LeagueTableEntry, []string) {
	fields := normalizeFields(record, entryAliases)
	var errs []string

	intField := func(name string) int {
		v, ok := fields[name]
		if !ok || v == nil {
			errs = append(errs, name+": missing")
			return 0
		}
		n, err := intValue(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			return 0
		}
		return n
	}

	entry := models.LeagueTableEntry{}
	entry.Position = intField("position")

	if v, ok := fields["team_name"]; !ok || v == nil {
		errs = append(errs, "team_name: missing")
	} else if s, err := stringValue(v); err != nil {
		errs = append(errs, fmt.Sprintf("team_name: %v", err))
	} else {
		entry.TeamName = strings.TrimSpace(s)
	}

	entry.MatchesPlayed = intField("matches_played")
	entry.Wins = intField("wins")
	entry.Draws = intField("draws")
	entry.Losses = intField("losses")
	entry.GoalsFor = intField("goals_for")
	entry.GoalsAgainst = intField("goals_against")
	entry.GoalDifference = intField("goal_difference")
	entry.Points = intField("points")

	return entry, errs
}

// normalizeFields lowercases keys, strips periods, unifies separators, and
// resolves aliases. When a record carries both an alias and its canonical
// name, the canonical name wins.
func normalizeFields(record map[string]any, aliases map[string]string) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		key := normalizeKey(k)
		if _, isAlias := aliases[key]; isAlias {
			continue
		}
		out[key] = v
	}
	for k, v := range record {
		canonical, isAlias := aliases[normalizeKey(k)]
		if !isAlias {
			continue
		}
		if _, exists := out[canonical]; !exists {
			out[canonical] = v
		}
	}
	return out
}

func normalizeKey(k string) string {
	key := strings.ToLower(strings.TrimSpace(k))
	key = strings.ReplaceAll(key, ".", "")
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n.String())
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func stringValue(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case float64:
		if s == math.Trunc(s) {
			return strconv.Itoa(int(s)), nil
		}
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case json.Number:
		return s.String(), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
}

func translateValidatorError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add("%s", describeFieldError(fe))
	}
	return verr
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "LeagueTableData.")
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s: must not be empty", field)
	case "unique":
		return fmt.Sprintf("%s: duplicate %s values", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s constraint", field, fe.Tag())
	}
}
