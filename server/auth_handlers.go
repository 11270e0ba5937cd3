package server

import (
	"encoding/json"
	"net/http"

	"github.com/glowdesk/artist-portal/session"
)

type otpRequest struct {
	Phone string `json:"phone"`
}

type loginRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// LoginPageHandler is the login entry point. It returns the durable user-id
// hint when one exists so the client can prefill the phone form.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"login": "otp"}
		if lastUserID, err := s.store.LastUserID(); err == nil {
			payload["last_user_id"] = lastUserID
		}
		respondJSON(w, http.StatusOK, payload)
	}
}

// RequestOTPHandler triggers out-of-band OTP delivery via the upstream API
func (s *Server) RequestOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
			respondError(w, http.StatusBadRequest, "phone is required")
			return
		}
		if err := s.client.RequestOTP(r.Context(), req.Phone); err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "otp sent"})
	}
}

// LoginOTPHandler exchanges phone+OTP for a token set and commits it to the
// session store.
func (s *Server) LoginOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.OTP == "" {
			respondError(w, http.StatusBadRequest, "phone and otp are required")
			return
		}

		result, err := s.client.LoginOTP(r.Context(), req.Phone, req.OTP)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}

		s.store.Login(session.Credentials{
			AccessToken:  result.Access,
			RefreshToken: result.Refresh,
			User: session.UserSummary{
				ID:    result.UserID.String(),
				Name:  result.Name,
				Phone: result.Phone,
				Role:  result.Role,
			},
		})

		w.Header().Set("Cache-Control", "no-store")
		respondJSON(w, http.StatusOK, map[string]any{
			"user":     s.store.CurrentUser(),
			"redirect": RouteHome,
		})
	}
}

// LogoutHandler clears the session and sends the client back to login
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.Logout()
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// HomeHandler is the protected landing view
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"user": s.store.CurrentUser(),
			"sections": []string{
				RouteLeads, RouteProfile, RoutePlans, RoutePayments, RouteTickets, RouteReferrals,
			},
		})
	}
}
