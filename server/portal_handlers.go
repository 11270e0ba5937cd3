package server

import (
	"encoding/json"
	"net/http"
)

// The handlers below are thin proxies over the upstream API: one widget per
// endpoint, each owning its own error state so a failing section renders an
// inline error while its neighbours keep working.

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.client.MyProfile(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) PlansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := s.client.Plans(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"plans": plans})
	}
}

func (s *Server) PaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := s.client.MyPayments(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"payments": payments})
	}
}

func (s *Server) TicketListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := s.client.MyTickets(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
	}
}

func (s *Server) TicketCreateHandler() http.HandlerFunc {
	type request struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
			respondError(w, http.StatusBadRequest, "subject is required")
			return
		}
		ticket, err := s.client.CreateTicket(r.Context(), req.Subject, req.Message)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, ticket)
	}
}

func (s *Server) ReferralsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		referrals, err := s.client.MyReferrals(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"referrals": referrals})
	}
}
