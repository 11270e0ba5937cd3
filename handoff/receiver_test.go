package handoff_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/artist-portal/handoff"
	"github.com/glowdesk/artist-portal/session"
)

const trustedOrigin = "https://admin.example.com"

func newTestReceiver(t *testing.T, navigateHome func()) (*handoff.Receiver, *session.Store) {
	t.Helper()
	store := session.NewStore(session.NewInMemoryRepo(), nil, zerolog.Nop())
	store.Restore()
	allowed := handoff.NewAllowList([]string{trustedOrigin})
	return handoff.NewReceiver(allowed, store, navigateHome, zerolog.Nop()), store
}

func TestReceiver_HandleMessage(t *testing.T) {
	t.Run("credential payload from trusted origin commits", func(t *testing.T) {
		navigated := false
		receiver, store := newTestReceiver(t, func() { navigated = true })

		verdict := receiver.HandleMessage(handoff.Message{
			Origin: trustedOrigin,
			Data:   map[string]any{"access": "abc", "refresh": "def", "user_id": "7"},
		})

		require.Equal(t, handoff.VerdictCommitted, verdict)
		require.True(t, navigated, "commit must navigate home")
		require.True(t, store.Authenticated())
		require.Equal(t, "abc", store.AccessToken())

		user := store.CurrentUser()
		require.NotNil(t, user)
		require.Equal(t, "7", user.ID)
		require.Equal(t, handoff.RoleArtist, user.Role)
	})

	t.Run("untrusted origin ignored even with valid payload", func(t *testing.T) {
		receiver, store := newTestReceiver(t, nil)

		verdict := receiver.HandleMessage(handoff.Message{
			Origin: "https://admin.example.com.evil.com",
			Data:   map[string]any{"access": "abc", "user_id": "7"},
		})

		require.Equal(t, handoff.VerdictIgnored, verdict)
		require.False(t, store.Authenticated())
	})

	t.Run("ping acknowledged without touching the session", func(t *testing.T) {
		receiver, store := newTestReceiver(t, nil)
		before := store.Snapshot()

		verdict := receiver.HandleMessage(handoff.Message{
			Origin: trustedOrigin,
			Data:   map[string]any{"type": "ping"},
		})

		require.Equal(t, handoff.VerdictPing, verdict)
		require.Equal(t, before, store.Snapshot())
	})

	t.Run("nil payload ignored", func(t *testing.T) {
		receiver, _ := newTestReceiver(t, nil)
		verdict := receiver.HandleMessage(handoff.Message{Origin: trustedOrigin})
		require.Equal(t, handoff.VerdictIgnored, verdict)
	})

	t.Run("unrecognized payload ignored", func(t *testing.T) {
		receiver, _ := newTestReceiver(t, nil)
		verdict := receiver.HandleMessage(handoff.Message{
			Origin: trustedOrigin,
			Data:   map[string]any{"type": "resize", "width": 320},
		})
		require.Equal(t, handoff.VerdictIgnored, verdict)
	})

	t.Run("handoff without access token dropped", func(t *testing.T) {
		navigated := false
		receiver, store := newTestReceiver(t, func() { navigated = true })

		verdict := receiver.HandleMessage(handoff.Message{
			Origin: trustedOrigin,
			Data:   map[string]any{"refresh": "def", "user_id": "7"},
		})

		require.Equal(t, handoff.VerdictDropped, verdict)
		require.False(t, store.Authenticated())
		require.False(t, navigated)
	})
}

func TestReceiver_HandleFragment(t *testing.T) {
	receiver, store := newTestReceiver(t, nil)

	t.Run("credential fragment commits", func(t *testing.T) {
		verdict := receiver.HandleFragment("access=abc&refresh=def&user_id=7")
		require.Equal(t, handoff.VerdictCommitted, verdict)
		require.True(t, store.Authenticated())
	})

	t.Run("non-credential fragment ignored", func(t *testing.T) {
		verdict := receiver.HandleFragment("section=reviews")
		require.Equal(t, handoff.VerdictIgnored, verdict)
	})

	t.Run("fragment without access token dropped", func(t *testing.T) {
		verdict := receiver.HandleFragment("refresh=def")
		require.Equal(t, handoff.VerdictDropped, verdict)
	})
}

// fakePoster records posted messages and their target origins
type fakePoster struct {
	posts []postedMessage
}

type postedMessage struct {
	data   map[string]any
	target string
}

func (p *fakePoster) PostMessage(data map[string]any, targetOrigin string) {
	p.posts = append(p.posts, postedMessage{data: data, target: targetOrigin})
}

// fakeChannel records whether a handler was registered and lets the test
// inject messages as the channel would.
type fakeChannel struct {
	handler      func(handoff.Message)
	unsubscribed bool
}

func (c *fakeChannel) Subscribe(handler func(handoff.Message)) func() {
	c.handler = handler
	return func() { c.unsubscribed = true }
}

func TestReceiver_Announce(t *testing.T) {
	t.Run("trusted referrer gets a targeted announcement", func(t *testing.T) {
		receiver, _ := newTestReceiver(t, nil)
		opener := &fakePoster{}

		receiver.Announce(opener, trustedOrigin+"/console/artists")

		require.Len(t, opener.posts, 1)
		require.Equal(t, trustedOrigin, opener.posts[0].target)
		require.Equal(t, "artist-portal-ready", opener.posts[0].data["type"])
	})

	t.Run("untrusted or absent referrer falls back to wildcard", func(t *testing.T) {
		receiver, _ := newTestReceiver(t, nil)
		opener := &fakePoster{}

		receiver.Announce(opener, "https://somewhere.else")
		receiver.Announce(opener, "")

		require.Len(t, opener.posts, 2)
		require.Equal(t, handoff.WildcardTarget, opener.posts[0].target)
		require.Equal(t, handoff.WildcardTarget, opener.posts[1].target)
	})
}

func TestReceiver_Attach(t *testing.T) {
	receiver, store := newTestReceiver(t, nil)
	channel := &fakeChannel{}
	opener := &fakePoster{}

	// A fast sender replies to the announcement immediately, so the handler
	// must already be registered by the time the announcement goes out.
	detach := receiver.Attach(channel, opener, trustedOrigin)

	require.NotNil(t, channel.handler, "handler must be registered")
	require.Len(t, opener.posts, 1, "readiness announced after registration")

	channel.handler(handoff.Message{
		Origin: trustedOrigin,
		Data:   map[string]any{"access": "abc", "user_id": "7"},
	})
	require.True(t, store.Authenticated())

	detach()
	require.True(t, channel.unsubscribed)

	t.Run("no opener means no announcement", func(t *testing.T) {
		receiver, _ := newTestReceiver(t, nil)
		channel := &fakeChannel{}
		detach := receiver.Attach(channel, nil, "")
		defer detach()
		require.NotNil(t, channel.handler)
	})
}
