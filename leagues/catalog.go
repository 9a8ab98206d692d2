// Package leagues holds the static European league catalog and resolves each
// league to a target URL from layered configuration sources.
package leagues

import "strings"

// Definition is one static registry entry. The catalog is immutable after
// process start; the URL is resolved separately at run time.
type Definition struct {
	Key     string
	Name    string
	Country string
	Tier    int
}

// european lists the supported leagues in declared order. Batch processing
// follows this order, filtered but never re-sorted.
var european = []Definition{
	// Top 5 leagues
	{Key: "Premier League", Name: "Premier League", Country: "England", Tier: 1},
	{Key: "La Liga", Name: "La Liga", Country: "Spain", Tier: 1},
	{Key: "Bundesliga", Name: "Bundesliga", Country: "Germany", Tier: 1},
	{Key: "Serie A", Name: "Serie A", Country: "Italy", Tier: 1},
	{Key: "Ligue 1", Name: "Ligue 1", Country: "France", Tier: 1},

	// Other major European leagues
	{Key: "Eredivisie", Name: "Eredivisie", Country: "Netherlands", Tier: 1},
	{Key: "Primeira Liga", Name: "Primeira Liga", Country: "Portugal", Tier: 1},
	{Key: "Super Lig", Name: "Süper Lig", Country: "Turkey", Tier: 1},
	{Key: "Premier Liga", Name: "Premier Liga", Country: "Russia", Tier: 1},
	{Key: "Belgian First Division A", Name: "Belgian First Division A", Country: "Belgium", Tier: 1},
	{Key: "Super League", Name: "Super League", Country: "Greece", Tier: 1},
	{Key: "Austrian Bundesliga", Name: "Austrian Bundesliga", Country: "Austria", Tier: 1},
	{Key: "Super Liga", Name: "Super Liga", Country: "Serbia", Tier: 1},
	{Key: "Ukrainian Premier League", Name: "Ukrainian Premier League", Country: "Ukraine", Tier: 1},
	{Key: "First League", Name: "First League", Country: "Czech Republic", Tier: 1},
	{Key: "Swiss Super League", Name: "Swiss Super League", Country: "Switzerland", Tier: 1},

	// Second tier leagues
	{Key: "EFL Championship", Name: "EFL Championship", Country: "England", Tier: 2},
	{Key: "La Liga 2", Name: "La Liga 2", Country: "Spain", Tier: 2},
	{Key: "2. Bundesliga", Name: "2. Bundesliga", Country: "Germany", Tier: 2},
	{Key: "Serie B", Name: "Serie B", Country: "Italy", Tier: 2},
	{Key: "Ligue 2", Name: "Ligue 2", Country: "France", Tier: 2},

	// Scandinavian leagues
	{Key: "Allsvenskan", Name: "Allsvenskan", Country: "Sweden", Tier: 1},
	{Key: "Eliteserien", Name: "Eliteserien", Country: "Norway", Tier: 1},
	{Key: "Danish Superliga", Name: "Danish Superliga", Country: "Denmark", Tier: 1},
	{Key: "Veikkausliiga", Name: "Veikkausliiga", Country: "Finland", Tier: 1},

	// Eastern European leagues
	{Key: "Ekstraklasa", Name: "Ekstraklasa", Country: "Poland", Tier: 1},
	{Key: "Liga I", Name: "Liga I", Country: "Romania", Tier: 1},
	{Key: "Prva HNL", Name: "Prva HNL", Country: "Croatia", Tier: 1},
	{Key: "HNL", Name: "HNL", Country: "Slovenia", Tier: 1},
	{Key: "Slovak Super Liga", Name: "Slovak Super Liga", Country: "Slovakia", Tier: 1},
	{Key: "Liga 1", Name: "Liga 1", Country: "Bulgaria", Tier: 1},

	// Celtic nations
	{Key: "Scottish Premiership", Name: "Scottish Premiership", Country: "Scotland", Tier: 1},
	{Key: "League of Ireland Premier Division", Name: "League of Ireland Premier Division", Country: "Ireland", Tier: 1},
	{Key: "Cymru Premier", Name: "Cymru Premier", Country: "Wales", Tier: 1},
}

// Catalog returns a copy of the full league catalog in declared order.
func Catalog() []Definition {
	out := make([]Definition, len(european))
	copy(out, european)
	return out
}

// FilterTier keeps leagues whose tier matches. A tier of zero or below keeps
// every league.
func FilterTier(defs []Definition, tier int) []Definition {
	if tier <= 0 {
		return defs
	}
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if def.Tier == tier {
			out = append(out, def)
		}
	}
	return out
}

// FilterNames keeps leagues whose canonical key or display name appears in
// names. An empty list keeps every league.
func FilterNames(defs []Definition, names []string) []Definition {
	if len(names) == 0 {
		return defs
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			wanted[trimmed] = struct{}{}
		}
	}
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if _, ok := wanted[def.Key]; ok {
			out = append(out, def)
			continue
		}
		if _, ok := wanted[def.Name]; ok {
			out = append(out, def)
		}
	}
	return out
}

// EnvVarName converts a league key to the environment variable holding its
// explicit URL override: "2. Bundesliga" becomes "2_BUNDESLIGA_URL".
func EnvVarName(key string) string {
	name := strings.ToUpper(key)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "")
	name = strings.ReplaceAll(name, "-", "_")
	return name + "_URL"
}

// Slug derives the URL path segment from a league's display name:
// "2. Bundesliga" becomes "2-bundesliga".
func Slug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	return strings.ReplaceAll(slug, ".", "")
}
