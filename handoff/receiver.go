package handoff

import (
	"github.com/rs/zerolog"

	"github.com/glowdesk/artist-portal/session"
)

// RoleArtist is the fixed role marker persisted with every handoff commit:
// anything arriving over this channel is an artist-portal login.
const RoleArtist = "artist"

// WildcardTarget delivers a posted message regardless of the receiving
// context's origin.
const WildcardTarget = "*"

// readyMessageType announces to the opener that the listener is registered
// and credentials may be sent.
const readyMessageType = "artist-portal-ready"

// Verdict is the outcome of handling one cross-context message
type Verdict int

const (
	// VerdictIgnored - untrusted origin or unrecognized payload; logged, no state change
	VerdictIgnored Verdict = iota
	// VerdictPing - liveness probe acknowledged via log only
	VerdictPing
	// VerdictCommitted - credentials extracted and committed to the session store
	VerdictCommitted
	// VerdictDropped - recognized handoff without an access token; warned and dropped
	VerdictDropped
)

// Poster sends a structured message to another browsing context, constrained
// to targetOrigin (or WildcardTarget).
type Poster interface {
	PostMessage(data map[string]any, targetOrigin string)
}

// Channel delivers incoming cross-context messages to a registered handler
// and removes the handler when the returned function is called.
type Channel interface {
	Subscribe(handler func(Message)) (unsubscribe func())
}

// Receiver accepts credential handoffs from trusted external origins (the
// admin console popup/opener pattern) and commits them to the session store
// without a server round trip. It never panics on a bad payload: every
// failure path is a logged drop, and a commit is all-or-nothing.
type Receiver struct {
	allowed      AllowList
	store        *session.Store
	navigateHome func()
	log          zerolog.Logger
}

// NewReceiver creates a receiver. navigateHome is invoked after a successful
// commit and must replace history so back-navigation cannot return to the
// receive view.
func NewReceiver(allowed AllowList, store *session.Store, navigateHome func(), log zerolog.Logger) *Receiver {
	return &Receiver{
		allowed:      allowed,
		store:        store,
		navigateHome: navigateHome,
		log:          log.With().Str("component", "handoff").Logger(),
	}
}

// Attach registers the message handler on ch and only then, when this context
// was opened by another window, announces readiness to the opener. Ordering
// matters: announcing first would race a fast sender against an unregistered
// listener. The returned function detaches the handler.
func (r *Receiver) Attach(ch Channel, opener Poster, referrer string) func() {
	unsubscribe := ch.Subscribe(func(m Message) {
		r.HandleMessage(m)
	})
	if opener != nil {
		r.Announce(opener, referrer)
	}
	return unsubscribe
}

// Announce sends the readiness message to the opener. The target origin is
// the referrer's origin when that origin is trusted; otherwise it falls back
// to the wildcard target. The fallback leaks the readiness message to an
// arbitrary opener - an accepted weakening for openers behind redirects, and
// it carries no credentials.
func (r *Receiver) Announce(opener Poster, referrer string) {
	target := WildcardTarget
	if origin, err := NormalizeOrigin(referrer); err == nil && r.allowed.Allows(origin) {
		target = origin
	} else {
		r.log.Warn().Str("referrer", referrer).Msg("referrer not trusted, announcing readiness to wildcard target")
	}
	opener.PostMessage(map[string]any{"type": readyMessageType}, target)
}

// HandleMessage validates and processes one cross-context message
func (r *Receiver) HandleMessage(msg Message) Verdict {
	if !r.allowed.Allows(msg.Origin) {
		r.log.Debug().Str("origin", msg.Origin).Msg("message from untrusted origin ignored")
		return VerdictIgnored
	}
	if msg.Data == nil {
		r.log.Debug().Str("origin", msg.Origin).Msg("message without structured payload ignored")
		return VerdictIgnored
	}

	if msgType, _ := msg.Data["type"].(string); msgType == MessageTypePing {
		r.log.Info().Str("origin", msg.Origin).Msg("ping acknowledged")
		return VerdictPing
	}

	creds, recognized := ExtractCredentials(msg.Data)
	if !recognized {
		r.log.Debug().Str("origin", msg.Origin).Msg("payload is not a credential handoff, ignored")
		return VerdictIgnored
	}
	return r.commit(creds)
}

// HandleFragment runs a URL-fragment handoff through the same commit path as
// the message channel. The caller strips the fragment from the visible URL
// afterwards. Fragments bypass the origin check: they can only be placed by
// whoever navigated this context, which is the same trust decision the
// browser already made.
func (r *Receiver) HandleFragment(fragment string) Verdict {
	creds, recognized := ParseFragment(fragment)
	if !recognized {
		return VerdictIgnored
	}
	return r.commit(creds)
}

func (r *Receiver) commit(creds Credentials) Verdict {
	if creds.AccessToken == "" {
		r.log.Warn().Msg("credential handoff without access token dropped")
		return VerdictDropped
	}

	r.store.Login(session.Credentials{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User: session.UserSummary{
			ID:   creds.UserID,
			Role: RoleArtist,
		},
	})
	r.log.Info().Str("user_id", creds.UserID).Msg("handoff committed")

	if r.navigateHome != nil {
		r.navigateHome()
	}
	return VerdictCommitted
}
