package migrate

import (
	"strings"

	"github.com/desertthunder/likeshift/internal/services"
)

// MatchPolicy selects the best candidate from a search result list.
//
// Policies must be deterministic so a re-run over the same results picks the
// same match.
type MatchPolicy interface {
	BestMatch(results []services.SearchResult) (services.SearchResult, bool)
}

// PreferStudioPolicy picks the first result whose title does not look like a
// live recording, falling back to the first result.
type PreferStudioPolicy struct{}

// BestMatch returns the chosen result and false when the list is empty.
func (PreferStudioPolicy) BestMatch(results []services.SearchResult) (services.SearchResult, bool) {
	if len(results) == 0 {
		return services.SearchResult{}, false
	}

	for _, result := range results {
		if !strings.Contains(strings.ToLower(result.Title), "live") {
			return result, true
		}
	}

	return results[0], true
}
