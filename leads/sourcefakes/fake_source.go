package sourcefakes

import (
	"context"
	"sync"

	"github.com/glowdesk/artist-portal/leads"
)

var _ leads.Source = (*FakeSource)(nil)

// FakeSource is an in-memory leads.Source for tests. Per-lead errors make a
// claim or book fail the way the upstream would; FetchGate, when set, blocks
// fetches until released so cancellation behaviour can be exercised.
type FakeSource struct {
	mu        sync.Mutex
	leads     []leads.Lead
	fetchErr  error
	claimErrs map[int64]error
	bookErrs  map[int64]error

	fetchGate chan struct{}
	claimGate chan struct{}

	FetchCalls int
	ClaimCalls []int64
	BookCalls  []int64
}

func NewFakeSource(initial []leads.Lead) *FakeSource {
	return &FakeSource{
		leads:     initial,
		claimErrs: make(map[int64]error),
		bookErrs:  make(map[int64]error),
	}
}

func (f *FakeSource) SetLeads(all []leads.Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = all
}

// GateFetch makes subsequent fetches block until gate is closed (or the
// context ends). A nil gate removes the block.
func (f *FakeSource) GateFetch(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchGate = gate
}

// GateClaim makes subsequent claims block until gate is closed (or the
// context ends). A nil gate removes the block.
func (f *FakeSource) GateClaim(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimGate = gate
}

// FetchCount returns how many fetches have started
func (f *FakeSource) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FetchCalls
}

// ClaimCount returns how many claims have started
func (f *FakeSource) ClaimCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ClaimCalls)
}

func (f *FakeSource) FailFetchWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *FakeSource) FailClaimWith(leadID int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimErrs[leadID] = err
}

func (f *FakeSource) FailBookWith(leadID int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookErrs[leadID] = err
}

func (f *FakeSource) FetchLeads(ctx context.Context) ([]leads.Lead, error) {
	f.mu.Lock()
	gate := f.fetchGate
	f.FetchCalls++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-gate:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	fetched := make([]leads.Lead, len(f.leads))
	copy(fetched, f.leads)
	return fetched, nil
}

func (f *FakeSource) ClaimLead(ctx context.Context, leadID int64) error {
	f.mu.Lock()
	gate := f.claimGate
	f.ClaimCalls = append(f.ClaimCalls, leadID)
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-gate:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimErrs[leadID]
}

func (f *FakeSource) BookLead(ctx context.Context, leadID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BookCalls = append(f.BookCalls, leadID)
	return f.bookErrs[leadID]
}
