package leads

// State is the lead list plus the per-lead display status derived from it.
// States are treated as immutable: Reduce returns a fresh State and never
// mutates its input.
type State struct {
	Leads   []Lead
	Display map[int64]Status
}

// Action is the closed set of mutations the lead state admits. Claim and
// Book only ever add an artist to a set; ReplaceAll is the sole path that
// can reconcile local state with server truth. Keeping the reducer this
// narrow enforces the append-only-until-refetch invariant mechanically.
type Action interface {
	isAction()
}

// Claim records a confirmed claim by ArtistID on LeadID
type Claim struct {
	LeadID   int64
	ArtistID string
}

// Book records a confirmed booking by ArtistID on LeadID
type Book struct {
	LeadID   int64
	ArtistID string
}

// ReplaceAll swaps in a freshly fetched lead collection
type ReplaceAll struct {
	Leads []Lead
}

func (Claim) isAction()      {}
func (Book) isAction()       {}
func (ReplaceAll) isAction() {}

// Reduce applies one action and returns the next state
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case ReplaceAll:
		next := State{
			Leads:   make([]Lead, len(a.Leads)),
			Display: make(map[int64]Status, len(a.Leads)),
		}
		copy(next.Leads, a.Leads)
		for _, lead := range a.Leads {
			next.Display[lead.ID] = DisplayStatus(lead.Status)
		}
		return next

	case Claim:
		return patch(state, a.LeadID, StatusClaimed, func(lead *Lead) {
			lead.ClaimedArtists = union(lead.ClaimedArtists, a.ArtistID)
		})

	case Book:
		return patch(state, a.LeadID, StatusBooked, func(lead *Lead) {
			lead.BookedArtists = union(lead.BookedArtists, a.ArtistID)
		})
	}
	return state
}

// patch copies the state and applies an additive mutation to a single lead,
// leaving every other lead and field untouched. Unknown lead ids leave the
// state unchanged.
func patch(state State, leadID int64, display Status, mutate func(*Lead)) State {
	found := false
	next := State{
		Leads:   make([]Lead, len(state.Leads)),
		Display: make(map[int64]Status, len(state.Display)),
	}
	copy(next.Leads, state.Leads)
	for id, status := range state.Display {
		next.Display[id] = status
	}

	for i := range next.Leads {
		if next.Leads[i].ID == leadID {
			mutate(&next.Leads[i])
			next.Display[leadID] = display
			found = true
			break
		}
	}
	if !found {
		return state
	}
	return next
}

// union appends id to ids unless already present, always returning a copy so
// the previous state's slice is never aliased.
func union(ids []string, id string) []string {
	next := make([]string, len(ids), len(ids)+1)
	copy(next, ids)
	if !contains(next, id) {
		next = append(next, id)
	}
	return next
}
