package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/glowdesk/artist-portal/handoff"
	"github.com/glowdesk/artist-portal/internal/config"
	apperrors "github.com/glowdesk/artist-portal/internal/errors"
	"github.com/glowdesk/artist-portal/leads"
	"github.com/glowdesk/artist-portal/portalapi"
	"github.com/glowdesk/artist-portal/session"
)

// Server is the portal's HTTP surface: the route guard in front of the
// protected views, the cross-origin handoff endpoints, and thin JSON proxies
// over the upstream API. Each section owns its own error state; one widget's
// upstream failure never blanks another.
type Server struct {
	config   config.Config
	store    *session.Store
	receiver *handoff.Receiver
	client   *portalapi.Client
	log      zerolog.Logger

	// leadController is rebound per authenticated artist so the idempotence
	// guards are scoped to the logged-in user.
	controllerMu   sync.RWMutex
	leadController *leads.Controller
}

// New wires the server and restores the persisted session so the route guard
// can distinguish "still checking" from confirmed-anonymous.
func New(cfg config.Config, store *session.Store, client *portalapi.Client, log zerolog.Logger) *Server {
	s := &Server{
		config: cfg,
		store:  store,
		client: client,
		log:    log.With().Str("component", "server").Logger(),
	}
	s.receiver = handoff.NewReceiver(
		handoff.NewAllowList(cfg.GetTrustedOrigins()),
		store,
		nil, // navigation is expressed as redirects by the HTTP handlers
		log,
	)

	// Rebind the lead controller on every session transition: logout drops
	// the per-artist guards, login creates fresh ones.
	store.Subscribe(func(sess session.Session) {
		s.controllerMu.Lock()
		defer s.controllerMu.Unlock()
		if sess.Authenticated() {
			s.leadController = leads.NewController(client, sess.User.ID, log)
		} else {
			s.leadController = nil
		}
	})

	store.Restore()
	return s
}

// Handler builds the route tree
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.RequestLogger)
	r.Use(Metrics)

	r.Get(RouteHealth, s.HealthHandler())
	r.Method(http.MethodGet, RouteMetrics, promhttp.Handler())

	// Login and OTP endpoints stay public
	r.Get(RouteLogin, s.LoginPageHandler())
	r.Post(RouteRequestOTP, s.RequestOTPHandler())
	r.Post(RouteLoginOTP, s.LoginOTPHandler())

	// Handoff endpoints accept cross-origin calls from the trusted admin
	// console only; the CORS layer shares the receiver's allow-list.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.GetTrustedOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))
		r.Post(RouteReceive, s.ReceiveMessageHandler())
		r.Get(RouteReceive, s.ReceiveFragmentHandler())
	})

	// Everything else sits behind the route guard
	r.Group(func(r chi.Router) {
		r.Use(s.RequireSession)
		r.Get(RouteHome, s.HomeHandler())
		r.Post(RouteLogout, s.LogoutHandler())
		r.Get(RouteLeads, s.LeadListHandler())
		r.Post(RouteLeadClaim, s.LeadClaimHandler())
		r.Post(RouteLeadBook, s.LeadBookHandler())
		r.Get(RouteClaimedLeads, s.ClaimedLeadsHandler())
		r.Get(RouteProfile, s.ProfileHandler())
		r.Get(RoutePlans, s.PlansHandler())
		r.Get(RoutePayments, s.PaymentsHandler())
		r.Get(RouteTickets, s.TicketListHandler())
		r.Post(RouteTickets, s.TicketCreateHandler())
		r.Get(RouteReferrals, s.ReferralsHandler())
	})

	return r
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondUpstreamError maps the portal error taxonomy onto an HTTP response,
// keeping the upstream's own message verbatim for structured rejections.
func respondUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *portalapi.APIError
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "session no longer valid, please log in again")
	case apperrors.Is(err, apperrors.ErrUpstreamUnreachable):
		respondError(w, http.StatusBadGateway, "could not reach server")
	case apperrors.Is(err, apperrors.ErrMalformedResponse):
		respondError(w, http.StatusBadGateway, "could not reach server")
	case apperrors.As(err, &apiErr):
		respondError(w, apiErr.StatusCode, apiErr.Message)
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
