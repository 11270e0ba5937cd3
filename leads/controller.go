package leads

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
)

// Source is the upstream lead API the controller drives. Implemented by
// portalapi.Client.
type Source interface {
	// FetchLeads returns the lead collection scoped to the current artist
	FetchLeads(ctx context.Context) ([]Lead, error)

	// ClaimLead marks the current artist's claim on a lead
	ClaimLead(ctx context.Context, leadID int64) error

	// BookLead marks the current artist's booking of a lead
	BookLead(ctx context.Context, leadID int64) error
}

// Controller owns the lead list for one artist: it fetches the collection,
// tracks loading and error state, and applies optimistic local patches after
// the server confirms a claim or book action. "Optimistic" here means no
// refetch follows a confirmed action - the UI is never updated before the
// round trip completes.
type Controller struct {
	mu          sync.Mutex
	source      Source
	artistID    string
	state       State
	loading     bool
	lastErr     error
	pending     map[int64]struct{}
	cancelFetch context.CancelFunc

	log zerolog.Logger
}

// Snapshot is a point-in-time read of the controller: the lead state plus
// the explicit loading/error flags the UI renders as three distinct
// conditions (loading, error, empty-success).
type Snapshot struct {
	State   State
	Loading bool
	Err     error
}

// NewController creates a lead list controller for the given artist
func NewController(source Source, artistID string, log zerolog.Logger) *Controller {
	return &Controller{
		source:   source,
		artistID: artistID,
		pending:  make(map[int64]struct{}),
		log:      log.With().Str("component", "leads").Logger(),
	}
}

// Refresh fetches the lead collection, cancelling any previous in-flight
// fetch first so a stale response can never overwrite a newer one
// (last-request-wins via cancellation, not timestamp comparison).
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()

	fetched, err := c.source.FetchLeads(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if fetchCtx.Err() != nil {
		// Superseded by a newer fetch; that fetch owns the flags now
		return fetchCtx.Err()
	}
	c.loading = false
	c.cancelFetch = nil
	if err != nil {
		c.lastErr = err
		return err
	}
	c.state = Reduce(c.state, ReplaceAll{Leads: fetched})
	c.log.Debug().Int("count", len(fetched)).Msg("lead list refreshed")
	return nil
}

// Claim sends the claim request and, only on confirmed success, patches the
// local lead by adding the current artist to its claimed set. Locally
// rejected before any request when the lead is unknown, a request for it is
// already in flight, or the artist already claimed it (idempotence guard).
// Server failures leave the list unchanged and propagate verbatim.
func (c *Controller) Claim(ctx context.Context, leadID int64) error {
	return c.act(ctx, leadID, Lead.ClaimedBy, c.source.ClaimLead, Claim{LeadID: leadID, ArtistID: c.artistID})
}

// Book is symmetric to Claim for the booked set, guarded on the artist
// already appearing in bookedArtists.
func (c *Controller) Book(ctx context.Context, leadID int64) error {
	return c.act(ctx, leadID, Lead.BookedBy, c.source.BookLead, Book{LeadID: leadID, ArtistID: c.artistID})
}

func (c *Controller) act(
	ctx context.Context,
	leadID int64,
	alreadyDone func(Lead, string) bool,
	send func(context.Context, int64) error,
	patch Action,
) error {
	c.mu.Lock()
	lead, ok := c.find(leadID)
	if !ok {
		c.mu.Unlock()
		return apperrors.ErrLeadNotFound
	}
	if _, inFlight := c.pending[leadID]; inFlight {
		c.mu.Unlock()
		return apperrors.ErrActionPending
	}
	if alreadyDone(lead, c.artistID) {
		c.mu.Unlock()
		return apperrors.ErrAlreadyDone
	}
	c.pending[leadID] = struct{}{}
	c.mu.Unlock()

	err := send(ctx, leadID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, leadID)
	if err != nil {
		c.log.Warn().Int64("lead_id", leadID).Err(err).Msg("lead action rejected")
		return err
	}
	c.state = Reduce(c.state, patch)
	return nil
}

// ActionAvailable reports whether a claim or book button should be enabled
// for the lead: no request in flight and the artist not already in the
// relevant set.
func (c *Controller) ActionAvailable(leadID int64, booking bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	lead, ok := c.find(leadID)
	if !ok {
		return false
	}
	if _, inFlight := c.pending[leadID]; inFlight {
		return false
	}
	if booking {
		return !lead.BookedBy(c.artistID)
	}
	return !lead.ClaimedBy(c.artistID)
}

// Snapshot returns a copy of the current lead state and flags
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Leads:   make([]Lead, len(c.state.Leads)),
		Display: make(map[int64]Status, len(c.state.Display)),
	}
	copy(state.Leads, c.state.Leads)
	for id, status := range c.state.Display {
		state.Display[id] = status
	}
	return Snapshot{State: state, Loading: c.loading, Err: c.lastErr}
}

// Visible applies the client-side filters to the current list without
// mutating it.
func (c *Controller) Visible(params FilterParams) []Lead {
	return Filter(c.Snapshot().State.Leads, params)
}

// find returns the lead by id. Callers must hold the lock.
func (c *Controller) find(leadID int64) (Lead, bool) {
	for _, lead := range c.state.Leads {
		if lead.ID == leadID {
			return lead, true
		}
	}
	return Lead{}, false
}
