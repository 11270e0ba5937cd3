package leads

import "strings"

// FilterAll disables a status or event-type filter
const FilterAll = "all"

// FilterParams are the client-side lead list filters. Filtering is pure and
// recomputed from the fetched list; it never triggers a server round trip.
type FilterParams struct {
	Search    string
	Status    string
	EventType string
}

// Filter returns the leads passing every active filter. A lead passes when
// the search text is a case-insensitive substring of its name, email, phone
// or event type, and the status and event-type filters are "all" or match
// case-insensitively. The input slice is never mutated.
func Filter(all []Lead, params FilterParams) []Lead {
	search := strings.ToLower(strings.TrimSpace(params.Search))

	matched := make([]Lead, 0, len(all))
	for _, lead := range all {
		if search != "" {
			haystack := strings.ToLower(strings.Join([]string{
				lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.EventType,
			}, " "))
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if !filterMatches(params.Status, lead.Status) {
			continue
		}
		if !filterMatches(params.EventType, lead.EventType) {
			continue
		}
		matched = append(matched, lead)
	}
	return matched
}

func filterMatches(filter, value string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return strings.EqualFold(filter, value)
}
