package leads

import "strings"

// Status is a lead's lifecycle stage. The set is server-defined and open:
// values outside the known list are tolerated and rendered as StatusUnknown.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusContacted Status = "contacted"
	StatusClaimed   Status = "claimed"
	StatusBooked    Status = "booked"
	StatusUnknown   Status = "unknown"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusAssigned:  {},
	StatusContacted: {},
	StatusClaimed:   {},
	StatusBooked:    {},
}

// DisplayStatus maps a raw server status to the status shown in the UI:
// pending when absent, unknown when unrecognized.
func DisplayStatus(raw string) Status {
	if raw == "" {
		return StatusPending
	}
	status := Status(strings.ToLower(raw))
	if _, ok := knownStatuses[status]; !ok {
		return StatusUnknown
	}
	return status
}

// ArtistSummary identifies an artist referenced from a lead
type ArtistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Lead is a prospective client inquiry an artist can claim and/or book.
// Leads are server-owned; the portal fetches them read-mostly and applies
// additive local patches after confirmed claim/book actions.
type Lead struct {
	ID              int64          `json:"id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	EventType       string         `json:"event_type"`
	EventDate       string         `json:"event_date,omitempty"`
	Location        string         `json:"location,omitempty"`
	Budget          string         `json:"budget,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Status          string         `json:"status"`
	ClaimedArtists  []string       `json:"claimed_artists"`
	BookedArtists   []string       `json:"booked_artists"`
	RequestedArtist *ArtistSummary `json:"requested_artist,omitempty"`
}

// ClaimedBy reports whether artistID already appears in the claimed set
func (l Lead) ClaimedBy(artistID string) bool {
	return contains(l.ClaimedArtists, artistID)
}

// BookedBy reports whether artistID already appears in the booked set
func (l Lead) BookedBy(artistID string) bool {
	return contains(l.BookedArtists, artistID)
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
