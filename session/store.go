package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
)

// Storage keys within the session scope.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "auth_user"
	keyRole         = "user_role"
)

// DurableKeyUserID is the single cross-restart convenience key: the id of the
// last logged-in artist. It lives in the durable scope so the login page can
// prefill identity hints; credentials never go there.
const DurableKeyUserID = "last_user_id"

// DurableStore is the longer-lived storage scope used for convenience lookups
// that survive a restart. Satisfied by *kvstore.Store.
type DurableStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Credentials is the input to Login: a freshly issued token set plus the user
// identity, from either the OTP login response or a cross-origin handoff.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         UserSummary
}

// Store is the single source of truth for "who is logged in". It holds the
// in-memory session, persists it to the session-scoped Repo, and notifies
// subscribers synchronously on every transition.
//
// Two states exist: Anonymous and Authenticated. Login moves Anonymous to
// Authenticated, Logout moves back, and Restore moves Anonymous to
// Authenticated when valid persisted data is found at startup. There are no
// other transitions.
type Store struct {
	mu          sync.RWMutex
	scoped      Repo
	durable     DurableStore // may be nil
	current     Session
	initialized bool

	subscribers map[int]func(Session)
	nextSubID   int

	log zerolog.Logger
}

// NewStore creates a session store over the given storage scopes. durable may
// be nil when no cross-restart storage is available; the store then simply
// skips the convenience key.
func NewStore(scoped Repo, durable DurableStore, log zerolog.Logger) *Store {
	return &Store{
		scoped:      scoped,
		durable:     durable,
		subscribers: make(map[int]func(Session)),
		log:         log.With().Str("component", "session").Logger(),
	}
}

// Login commits a credential set: persists tokens and user to the session
// scope, moves the store to Authenticated, and notifies subscribers. Storage
// failures are non-fatal warnings; the in-memory session stays usable for the
// life of the process.
func (s *Store) Login(creds Credentials) {
	userJSON, err := json.Marshal(creds.User)
	if err != nil {
		// UserSummary always marshals; guard anyway so a handoff can never panic
		s.log.Warn().Err(err).Msg("could not encode user for persistence")
		userJSON = []byte("{}")
	}

	s.mu.Lock()
	s.persist(keyAccessToken, creds.AccessToken)
	s.persist(keyRefreshToken, creds.RefreshToken)
	s.persist(keyUser, string(userJSON))
	if creds.User.Role != "" {
		s.persist(keyRole, creds.User.Role)
	}

	user := creds.User
	s.current = Session{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User:         &user,
		TokenExpiry:  tokenExpiry(creds.AccessToken),
	}

	if s.durable != nil && user.ID != "" {
		if err := s.durable.Set(DurableKeyUserID, user.ID); err != nil {
			s.log.Warn().Err(err).Msg("could not record last user id")
		}
	}

	snapshot := s.current
	subs := s.subscriberList()
	s.mu.Unlock()

	s.log.Info().Str("user_id", user.ID).Msg("session established")
	notify(subs, snapshot)
}

// Logout clears the persisted session and resets the in-memory state.
// Idempotent: a second call has no additional effect and notifies nobody.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.current.Authenticated()
	if err := s.scoped.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("could not clear session storage")
	}
	s.current = Session{}

	var subs []func(Session)
	if wasAuthenticated {
		subs = s.subscriberList()
	}
	s.mu.Unlock()

	if wasAuthenticated {
		s.log.Info().Msg("session cleared")
		notify(subs, Session{})
	}
}

// Restore reads the persisted session once at startup. When both a token and
// a well-formed user record are present the store becomes Authenticated;
// anything missing or malformed yields Anonymous. Restore never fails: a
// corrupted scope is treated as "no session". It also flips the initialized
// flag so the route guard can tell "still checking" from confirmed-anonymous.
func (s *Store) Restore() {
	s.mu.Lock()

	restored, ok := s.readPersisted()
	if ok {
		s.current = restored
	} else {
		s.current = Session{}
	}
	s.initialized = true

	snapshot := s.current
	var subs []func(Session)
	if snapshot.Authenticated() {
		subs = s.subscriberList()
	}
	s.mu.Unlock()

	if snapshot.Authenticated() {
		s.log.Info().Str("user_id", snapshot.User.ID).Msg("session restored")
		notify(subs, snapshot)
	}
}

func (s *Store) readPersisted() (Session, bool) {
	token, err := s.scoped.Get(keyAccessToken)
	if err != nil || token == "" {
		return Session{}, false
	}
	rawUser, err := s.scoped.Get(keyUser)
	if err != nil || rawUser == "" {
		return Session{}, false
	}

	var user UserSummary
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("persisted user record corrupted, treating as no session")
		return Session{}, false
	}

	refresh, _ := s.scoped.Get(keyRefreshToken)
	if role, err := s.scoped.Get(keyRole); err == nil && user.Role == "" {
		user.Role = role
	}

	return Session{
		AccessToken:  token,
		RefreshToken: refresh,
		User:         &user,
		TokenExpiry:  tokenExpiry(token),
	}, true
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentUser returns the in-memory user summary, or nil when anonymous
func (s *Store) CurrentUser() *UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil
	}
	user := *s.current.User
	return &user
}

// Authenticated reports whether the store holds a usable session
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// Initialized reports whether Restore has completed at least once
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// AccessToken returns the current bearer token, empty when anonymous.
// Satisfies portalapi.TokenProvider.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// LastUserID returns the durable cross-restart user id hint, if any
func (s *Store) LastUserID() (string, error) {
	if s.durable == nil {
		return "", apperrors.ErrNotFound
	}
	return s.durable.Get(DurableKeyUserID)
}

// Subscribe registers fn to be called synchronously on every session
// transition. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// persist writes a key to the session scope, demoting failures to warnings.
// Callers must hold the write lock.
func (s *Store) persist(key, value string) {
	if value == "" {
		_ = s.scoped.Delete(key)
		return
	}
	if err := s.scoped.Set(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session persistence failed, continuing in-memory")
	}
}

// subscriberList copies the subscriber set so notifications run outside the
// lock. Callers must hold at least the read lock.
func (s *Store) subscriberList() []func(Session) {
	subs := make([]func(Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Session), snapshot Session) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

// tokenExpiry derives the expiry claim from a JWT-shaped access token without
// verifying it. Opaque tokens yield the zero time; the portal then simply
// cannot pre-empt a 401.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
