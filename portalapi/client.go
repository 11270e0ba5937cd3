package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
	"github.com/glowdesk/artist-portal/leads"
)

// TokenProvider supplies the bearer token for authenticated requests.
// Satisfied by *session.Store; an empty token means anonymous.
type TokenProvider interface {
	AccessToken() string
}

// Client is a thin REST client over the upstream marketplace API. All
// business logic (lead assignment, payment verification, credit accounting,
// plan expiry) lives behind these endpoints and is opaque to the portal.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	log        zerolog.Logger
}

// NewClient creates an upstream API client. baseURL must not have a trailing
// slash; tokens may be nil for a client that only performs login calls.
func NewClient(baseURL string, timeout time.Duration, tokens TokenProvider, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log.With().Str("component", "portalapi").Logger(),
	}
}

// RequestOTP triggers out-of-band OTP delivery to the artist's phone
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	return c.do(ctx, http.MethodPost, "/login/request-otp", body, nil, false)
}

// LoginOTP exchanges a phone number and OTP for a token set
func (c *Client) LoginOTP(ctx context.Context, phone, otp string) (*LoginResult, error) {
	body := map[string]string{"phone": phone, "otp": otp}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/login-otp", body, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// MyProfile fetches the server-owned artist aggregate
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/my-profile", nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FetchLeads returns the leads assigned to the current artist.
// Satisfies leads.Source.
func (c *Client) FetchLeads(ctx context.Context) ([]leads.Lead, error) {
	return c.leadList(ctx, "/leads/my-assigned-leads")
}

// MyClaimedLeads returns the leads the current artist has claimed
func (c *Client) MyClaimedLeads(ctx context.Context) ([]leads.Lead, error) {
	return c.leadList(ctx, "/leads/my-claimed-leads")
}

func (c *Client) leadList(ctx context.Context, path string) ([]leads.Lead, error) {
	var response struct {
		Leads []leads.Lead `json:"leads"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &response, true); err != nil {
		return nil, err
	}
	return response.Leads, nil
}

// ClaimLead marks the current artist's claim on a lead
func (c *Client) ClaimLead(ctx context.Context, leadID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/leads/%d/claim", leadID), nil, nil, true)
}

// BookLead marks the current artist's booking of a lead
func (c *Client) BookLead(ctx context.Context, leadID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/leads/%d/book", leadID), nil, nil, true)
}

// Plans lists the purchasable subscription plans
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var response struct {
		Plans []Plan `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/plans", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Plans, nil
}

// MyPayments lists the artist's payment history
func (c *Client) MyPayments(ctx context.Context) ([]Payment, error) {
	var response struct {
		Payments []Payment `json:"payments"`
	}
	if err := c.do(ctx, http.MethodGet, "/my-payments", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Payments, nil
}

// MyTickets lists the artist's support tickets
func (c *Client) MyTickets(ctx context.Context) ([]Ticket, error) {
	var response struct {
		Tickets []Ticket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "/my-tickets", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Tickets, nil
}

// CreateTicket raises a new support ticket
func (c *Client) CreateTicket(ctx context.Context, subject, message string) (*Ticket, error) {
	body := map[string]string{"subject": subject, "message": message}
	var ticket Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", body, &ticket, true); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// MyReferrals lists the artists referred by the current artist
func (c *Client) MyReferrals(ctx context.Context) ([]Referral, error) {
	var response struct {
		Referrals []Referral `json:"referrals"`
	}
	if err := c.do(ctx, http.MethodGet, "/my-referrals", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Referrals, nil
}

// do performs one request and maps the outcome onto the portal's error
// taxonomy: context errors propagate as-is, transport failures become
// ErrUpstreamUnreachable, 401 becomes ErrUnauthorized so the UI can prompt
// re-login instead of retrying blindly, other non-2xx become an *APIError
// carrying the server's verbatim message, and an undecodable success body
// becomes ErrMalformedResponse.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrapf(err, "[portalapi] encode %s %s", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrapf(err, "[portalapi] build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := ""
		if c.tokens != nil {
			token = c.tokens.AccessToken()
		}
		if token == "" {
			return fmt.Errorf("%w: no access token", apperrors.ErrUnauthorized)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Str("path", path).Err(err).Msg("upstream request failed")
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, serverMessage(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: serverMessage(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
		}
	}
	return nil
}
