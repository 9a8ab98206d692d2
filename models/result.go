package models

import (
	"sort"
	"time"
)

// LeagueStatus is the terminal state of one league in a batch run.
type LeagueStatus string

const (
	StatusSucceeded    LeagueStatus = "succeeded"
	StatusFailed       LeagueStatus = "failed"
	StatusUnconfigured LeagueStatus = "unconfigured"
)

// LeagueOutcome records how one league fared during a batch run.
type LeagueOutcome struct {
	Key          string
	Name         string
	Country      string
	Tier         int
	Status       LeagueStatus
	URL          string
	Teams        int
	Attempts     int
	ArtifactPath string
	Err          error
}

// RunSummary holds the overall result of a batch run. Outcomes preserve the
// catalog's declared order.
type RunSummary struct {
	Outcomes     []LeagueOutcome
	StartTime    time.Time
	EndTime      time.Time
	Succeeded    int
	Failed       int
	Unconfigured int
	AttemptCount int
	RetryCount   int
	ErrorsByType map[string]int
}

// Total returns the number of leagues the run considered.
func (s *RunSummary) Total() int {
	return len(s.Outcomes)
}

// SuccessRate returns the percentage of attempted leagues that succeeded.
// Unconfigured leagues are excluded from the denominator.
func (s *RunSummary) SuccessRate() float64 {
	attempted := s.Succeeded + s.Failed
	if attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(attempted) * 100
}

// TierGroup bundles the outcomes of one competition tier.
type TierGroup struct {
	Tier     int
	Outcomes []LeagueOutcome
}

// TierGroups returns outcomes grouped by tier, tiers ascending, preserving
// outcome order within each group.
func (s *RunSummary) TierGroups() []TierGroup {
	byTier := make(map[int][]LeagueOutcome)
	for _, o := range s.Outcomes {
		byTier[o.Tier] = append(byTier[o.Tier], o)
	}

	tiers := make([]int, 0, len(byTier))
	for tier := range byTier {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)

	groups := make([]TierGroup, 0, len(tiers))
	for _, tier := range tiers {
		groups = append(groups, TierGroup{Tier: tier, Outcomes: byTier[tier]})
	}
	return groups
}
