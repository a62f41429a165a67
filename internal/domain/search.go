package domain

import (
	"sort"
	"strings"
)

// MatchesQuery reports whether a normalized query is a substring of the
// profile's username or title, case-insensitively. An empty query matches
// everything.
func MatchesQuery(normalizedQuery string, p *ChannelProfile) bool {
	if normalizedQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Username), normalizedQuery) ||
		strings.Contains(strings.ToLower(p.Title), normalizedQuery)
}

// FilterProfiles keeps the profiles passing both the category filter and
// the query. The input slice is not modified.
func FilterProfiles(profiles []ChannelProfile, query string, filter CategoryFilter) []ChannelProfile {
	q := NormalizeQuery(query)
	out := make([]ChannelProfile, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if !filter.Match(p) {
			continue
		}
		if !MatchesQuery(q, p) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// SortBySubscribers orders profiles descending by subscriber count.
// Ties keep their relative order.
func SortBySubscribers(profiles []ChannelProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Subscribers > profiles[j].Subscribers
	})
}
