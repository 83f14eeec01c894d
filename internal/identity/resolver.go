package identity

import (
	"strings"
)

// Match strategy tags, ordered from most to least precise.
const (
	StrategyExact            = "exact_normalized"
	StrategyLastFirstInitial = "last_name_first_initial"
	StrategyUniqueLastName   = "unique_last_name"
	StrategyLastPartialFirst = "last_name_partial_first"
	StrategyContainsBoth     = "contains_both_names"
	StrategyPartialLastName  = "partial_last_name"
	StrategyNone             = ""
)

// Candidate is one row of a reference table with its precomputed
// normalized key. Year lets the resolver narrow to the seasons a lookup
// actually covers.
type Candidate struct {
	Name           string
	NormalizedName string
	Year           int
	Ref            any
}

// Match is the outcome of a resolution attempt: the surviving candidate
// rows and the strategy that produced them. An empty Strategy means no
// strategy matched.
type Match struct {
	Candidates []Candidate
	Strategy   string
}

// Found reports whether any strategy produced at least one candidate.
func (m Match) Found() bool {
	return m.Strategy != StrategyNone && len(m.Candidates) > 0
}

// Names returns the distinct display names among the matched candidates,
// preserving table order.
func (m Match) Names() []string {
	return distinctNames(m.Candidates)
}

// A strategy inspects the filtered table and returns the rows it accepts
// plus the tag to report. An empty result hands control to the next
// strategy in the cascade.
type strategyFunc func(first, last, normalized string, rows []Candidate) ([]Candidate, string)

// Resolve maps a free-text name onto rows of a candidate table. Strategies
// run in order from most to least precise and the first one to produce a
// non-empty result wins. Ambiguity is resolved conservatively: the
// single-row strategies return nothing rather than guess, while the
// contains-both strategy deliberately returns every plausible row for
// downstream disambiguation. yearFilter, when non-empty, restricts the
// table to those seasons before any matching runs.
func Resolve(rawName string, table []Candidate, yearFilter []int) Match {
	normalized := Normalize(rawName)
	if normalized == "" {
		return Match{Strategy: StrategyNone}
	}
	first, last := NameParts(rawName)

	rows := filterYears(table, yearFilter)
	if len(rows) == 0 {
		return Match{Strategy: StrategyNone}
	}

	cascade := []strategyFunc{
		matchExact,
		matchLastFirstInitial,
		matchUniqueLastName,
		matchContainsBoth,
		matchPartialLastName,
	}

	for _, step := range cascade {
		if found, tag := step(first, last, normalized, rows); len(found) > 0 {
			return Match{Candidates: found, Strategy: tag}
		}
	}

	return Match{Strategy: StrategyNone}
}

// Suggestions returns alternative display names drawn from the
// lower-confidence strategies, for "did you mean" output when resolution
// fails or stays ambiguous. The resolved name itself is excluded.
func Suggestions(rawName string, table []Candidate, yearFilter []int, limit int) []string {
	_, last := NameParts(rawName)
	if last == "" {
		return nil
	}

	rows := filterYears(table, yearFilter)
	resolved := ""
	if m := Resolve(rawName, table, yearFilter); m.Found() {
		resolved = m.Candidates[0].NormalizedName
	}

	var out []string
	seen := map[string]bool{resolved: true}
	for _, row := range rows {
		if !containsToken(row.NormalizedName, last) && !strings.Contains(row.NormalizedName, prefixOf(last, 4)) {
			continue
		}
		if seen[row.NormalizedName] {
			continue
		}
		seen[row.NormalizedName] = true
		out = append(out, row.Name)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func matchExact(_, _, normalized string, rows []Candidate) ([]Candidate, string) {
	var out []Candidate
	for _, row := range rows {
		if row.NormalizedName == normalized {
			out = append(out, row)
		}
	}
	return out, StrategyExact
}

func matchLastFirstInitial(first, last, _ string, rows []Candidate) ([]Candidate, string) {
	if first == "" || last == "" {
		return nil, StrategyNone
	}
	initial := first[:1]
	var out []Candidate
	for _, row := range rows {
		if strings.Contains(row.NormalizedName, last) && anyTokenHasPrefix(row.NormalizedName, initial) {
			out = append(out, row)
		}
	}
	// Only trustworthy when every surviving row is the same person.
	if len(distinctNames(out)) != 1 {
		return nil, StrategyNone
	}
	return out, StrategyLastFirstInitial
}

func matchUniqueLastName(first, last, _ string, rows []Candidate) ([]Candidate, string) {
	if last == "" {
		return nil, StrategyNone
	}
	var out []Candidate
	for _, row := range rows {
		if containsToken(row.NormalizedName, last) {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, StrategyNone
	}
	if len(distinctNames(out)) == 1 {
		return out, StrategyUniqueLastName
	}
	if first == "" {
		return nil, StrategyNone
	}
	var refined []Candidate
	for _, row := range out {
		if strings.Contains(row.NormalizedName, first) {
			refined = append(refined, row)
		}
	}
	return refined, StrategyLastPartialFirst
}

func matchContainsBoth(first, last, _ string, rows []Candidate) ([]Candidate, string) {
	if first == "" || last == "" {
		return nil, StrategyNone
	}
	var out []Candidate
	for _, row := range rows {
		if strings.Contains(row.NormalizedName, first) && strings.Contains(row.NormalizedName, last) {
			out = append(out, row)
		}
	}
	return out, StrategyContainsBoth
}

func matchPartialLastName(_, last, _ string, rows []Candidate) ([]Candidate, string) {
	// Guards short or garbled surnames: only fire on a reasonably long
	// prefix, and only when it identifies a single player.
	if len(last) <= 3 {
		return nil, StrategyNone
	}
	prefix := last[:4]
	var out []Candidate
	for _, row := range rows {
		if strings.Contains(row.NormalizedName, prefix) {
			out = append(out, row)
		}
	}
	if len(distinctNames(out)) != 1 {
		return nil, StrategyNone
	}
	return out, StrategyPartialLastName
}

func filterYears(rows []Candidate, years []int) []Candidate {
	if len(years) == 0 {
		return rows
	}
	want := make(map[int]bool, len(years))
	for _, y := range years {
		want[y] = true
	}
	var out []Candidate
	for _, row := range rows {
		if want[row.Year] {
			out = append(out, row)
		}
	}
	return out
}

func distinctNames(rows []Candidate) []string {
	seen := make(map[string]bool, len(rows))
	var names []string
	for _, row := range rows {
		if !seen[row.NormalizedName] {
			seen[row.NormalizedName] = true
			names = append(names, row.Name)
		}
	}
	return names
}

func anyTokenHasPrefix(normalized, prefix string) bool {
	for _, t := range strings.Fields(normalized) {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func containsToken(normalized, token string) bool {
	for _, t := range strings.Fields(normalized) {
		if t == token {
			return true
		}
	}
	return false
}

func prefixOf(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
