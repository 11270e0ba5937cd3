package server

import (
	"encoding/json"
	"net/http"

	"github.com/glowdesk/artist-portal/handoff"
)

// ReceiveMessageHandler accepts a cross-origin credential handoff posted by
// the admin console. The browser-reported Origin header is what the receiver
// validates; rejections are silent (204, log only) so an untrusted sender
// learns nothing about the allow-list.
func (s *Server) ReceiveMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&data); err != nil {
			data = nil // not a structured record; the receiver ignores it
		}

		verdict := s.receiver.HandleMessage(handoff.Message{
			Origin: r.Header.Get("Origin"),
			Data:   data,
		})

		switch verdict {
		case handoff.VerdictCommitted:
			recordHandoff("committed")
			respondJSON(w, http.StatusOK, map[string]string{"redirect": RouteHome})
		case handoff.VerdictPing:
			recordHandoff("ping")
			w.WriteHeader(http.StatusNoContent)
		case handoff.VerdictDropped:
			recordHandoff("dropped")
			w.WriteHeader(http.StatusNoContent)
		default:
			recordHandoff("ignored")
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// ReceiveFragmentHandler is the URL handoff path: credentials arrive encoded
// as access=...&refresh=...&user_id=... parameters. After a commit the client
// is redirected home, which also strips the credentials from the visible URL.
func (s *Server) ReceiveFragmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verdict := s.receiver.HandleFragment(r.URL.RawQuery)

		w.Header().Set("Cache-Control", "no-store")
		if verdict == handoff.VerdictCommitted {
			recordHandoff("committed")
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
			return
		}
		recordHandoff("dropped")
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
