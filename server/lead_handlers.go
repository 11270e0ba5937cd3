package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
	"github.com/glowdesk/artist-portal/leads"
)

func (s *Server) controller() *leads.Controller {
	s.controllerMu.RLock()
	defer s.controllerMu.RUnlock()
	return s.leadController
}

// LeadListHandler refreshes the assigned-lead collection and returns the
// filtered view. Filters are applied client-side over the fetched list; a
// refresh superseded by a newer one yields 204 and lets the newer request
// answer.
func (s *Server) LeadListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := s.controller()
		if c == nil {
			respondError(w, http.StatusUnauthorized, "no active session")
			return
		}

		if err := c.Refresh(r.Context()); err != nil {
			if errors.Is(err, context.Canceled) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			respondUpstreamError(w, err)
			return
		}

		params := leads.FilterParams{
			Search:    r.URL.Query().Get("search"),
			Status:    r.URL.Query().Get("status"),
			EventType: r.URL.Query().Get("event_type"),
		}
		snapshot := c.Snapshot()
		visible := leads.Filter(snapshot.State.Leads, params)

		respondJSON(w, http.StatusOK, map[string]any{
			"leads":   visible,
			"display": snapshot.State.Display,
			"total":   len(snapshot.State.Leads),
		})
	}
}

// LeadClaimHandler marks the artist's claim on a lead
func (s *Server) LeadClaimHandler() http.HandlerFunc {
	return s.leadActionHandler("claim", func(c *leads.Controller, ctx context.Context, id int64) error {
		return c.Claim(ctx, id)
	}, leads.StatusClaimed)
}

// LeadBookHandler marks the artist's booking of a lead
func (s *Server) LeadBookHandler() http.HandlerFunc {
	return s.leadActionHandler("book", func(c *leads.Controller, ctx context.Context, id int64) error {
		return c.Book(ctx, id)
	}, leads.StatusBooked)
}

func (s *Server) leadActionHandler(
	action string,
	invoke func(*leads.Controller, context.Context, int64) error,
	display leads.Status,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := s.controller()
		if c == nil {
			respondError(w, http.StatusUnauthorized, "no active session")
			return
		}

		leadID, err := strconv.ParseInt(chi.URLParam(r, "leadID"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid lead id")
			return
		}

		if err := invoke(c, r.Context(), leadID); err != nil {
			recordLeadAction(action, "rejected")
			switch {
			case apperrors.Is(err, apperrors.ErrLeadNotFound):
				respondError(w, http.StatusNotFound, err.Error())
			case apperrors.Is(err, apperrors.ErrActionPending),
				apperrors.Is(err, apperrors.ErrAlreadyDone):
				respondError(w, http.StatusConflict, err.Error())
			default:
				respondUpstreamError(w, err)
			}
			return
		}

		recordLeadAction(action, "ok")
		respondJSON(w, http.StatusOK, map[string]any{
			"lead_id":        leadID,
			"display_status": display,
		})
	}
}

// ClaimedLeadsHandler is a read-only proxy for the artist's claimed leads
func (s *Server) ClaimedLeadsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claimed, err := s.client.MyClaimedLeads(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"leads": claimed})
	}
}
