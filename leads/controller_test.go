package leads_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
	"github.com/glowdesk/artist-portal/leads"
	"github.com/glowdesk/artist-portal/leads/sourcefakes"
	"github.com/glowdesk/artist-portal/portalapi"
)

const testArtistID = "7"

func newTestController(t *testing.T) (*leads.Controller, *sourcefakes.FakeSource) {
	t.Helper()

	source := sourcefakes.NewFakeSource(testLeads())
	controller := leads.NewController(source, testArtistID, zerolog.Nop())
	require.NoError(t, controller.Refresh(context.Background()))
	return controller, source
}

func TestController_Refresh(t *testing.T) {
	controller, source := newTestController(t)

	snapshot := controller.Snapshot()
	require.Len(t, snapshot.State.Leads, 3)
	require.False(t, snapshot.Loading)
	require.NoError(t, snapshot.Err)
	require.Equal(t, 1, source.FetchCalls)

	t.Run("fetch failure sets the error state and keeps going", func(t *testing.T) {
		source.FailFetchWith(&portalapi.APIError{StatusCode: 500, Message: "boom"})
		err := controller.Refresh(context.Background())
		require.Error(t, err)

		snapshot := controller.Snapshot()
		require.False(t, snapshot.Loading)
		require.EqualError(t, snapshot.Err, "boom")
	})
}

func TestController_RefreshCancelsPreviousFetch(t *testing.T) {
	controller, source := newTestController(t)

	gate := make(chan struct{})
	source.GateFetch(gate)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- controller.Refresh(context.Background())
	}()

	// Wait for the first fetch to be in flight
	require.Eventually(t, func() bool { return source.FetchCount() >= 2 }, time.Second, time.Millisecond)

	source.GateFetch(nil)
	require.NoError(t, controller.Refresh(context.Background()))

	err := <-firstDone
	require.ErrorIs(t, err, context.Canceled)

	// The superseded fetch must not have clobbered the newer result
	snapshot := controller.Snapshot()
	require.False(t, snapshot.Loading)
	require.NoError(t, snapshot.Err)
	require.Len(t, snapshot.State.Leads, 3)
}

func TestController_ClaimIdempotence(t *testing.T) {
	controller, source := newTestController(t)

	require.NoError(t, controller.Claim(context.Background(), 2))

	snapshot := controller.Snapshot()
	require.Equal(t, []string{testArtistID}, snapshot.State.Leads[1].ClaimedArtists)
	require.Equal(t, leads.StatusClaimed, snapshot.State.Display[2])
	require.Equal(t, []int64{2}, source.ClaimCalls)

	t.Run("second claim rejected locally before any request", func(t *testing.T) {
		err := controller.Claim(context.Background(), 2)
		require.ErrorIs(t, err, apperrors.ErrAlreadyDone)
		require.Equal(t, []int64{2}, source.ClaimCalls, "no second request may be sent")

		snapshot := controller.Snapshot()
		require.Equal(t, []string{testArtistID}, snapshot.State.Leads[1].ClaimedArtists, "exactly one entry for the artist")
	})

	t.Run("action availability reflects the claim", func(t *testing.T) {
		require.False(t, controller.ActionAvailable(2, false))
		require.True(t, controller.ActionAvailable(2, true))
	})
}

func TestController_ClaimFailureLeavesStateUnchanged(t *testing.T) {
	controller, source := newTestController(t)
	source.FailClaimWith(3, &portalapi.APIError{StatusCode: 409, Message: "Lead no longer available"})

	err := controller.Claim(context.Background(), 3)
	require.EqualError(t, err, "Lead no longer available")

	snapshot := controller.Snapshot()
	require.Empty(t, snapshot.State.Leads[2].ClaimedArtists)
	require.Equal(t, leads.StatusPending, snapshot.State.Display[3])
}

func TestController_ClaimInFlightGuard(t *testing.T) {
	controller, source := newTestController(t)

	gate := make(chan struct{})
	source.GateClaim(gate)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- controller.Claim(context.Background(), 2)
	}()

	require.Eventually(t, func() bool { return source.ClaimCount() == 1 }, time.Second, time.Millisecond)

	err := controller.Claim(context.Background(), 2)
	require.ErrorIs(t, err, apperrors.ErrActionPending)

	close(gate)
	require.NoError(t, <-firstDone)
	require.Equal(t, []int64{2}, source.ClaimCalls)
}

func TestController_BookFailure(t *testing.T) {
	controller, source := newTestController(t)
	source.FailBookWith(2, &portalapi.APIError{StatusCode: 409, Message: "Lead already booked"})

	err := controller.Book(context.Background(), 2)
	require.EqualError(t, err, "Lead already booked", "the server message must surface verbatim")

	snapshot := controller.Snapshot()
	require.Empty(t, snapshot.State.Leads[1].BookedArtists)
	require.Equal(t, leads.StatusPending, snapshot.State.Display[2])
}

func TestController_BookSuccessAndGuard(t *testing.T) {
	controller, source := newTestController(t)

	require.NoError(t, controller.Book(context.Background(), 2))

	snapshot := controller.Snapshot()
	require.Equal(t, []string{testArtistID}, snapshot.State.Leads[1].BookedArtists)
	require.Equal(t, leads.StatusBooked, snapshot.State.Display[2])

	err := controller.Book(context.Background(), 2)
	require.ErrorIs(t, err, apperrors.ErrAlreadyDone)
	require.Equal(t, []int64{2}, source.BookCalls)
}

func TestController_ActionOnUnknownLead(t *testing.T) {
	controller, _ := newTestController(t)

	err := controller.Claim(context.Background(), 99)
	require.ErrorIs(t, err, apperrors.ErrLeadNotFound)
}

func TestController_VisibleAppliesFilters(t *testing.T) {
	controller, _ := newTestController(t)

	visible := controller.Visible(leads.FilterParams{Status: "booked"})
	require.Len(t, visible, 1)
	require.Equal(t, int64(1), visible[0].ID)
}
