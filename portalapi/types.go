package portalapi

import "encoding/json"

// LoginResult is the upstream response to a successful OTP login
type LoginResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	Role    string      `json:"role"`
	UserID  json.Number `json:"user_id"`
	Name    string      `json:"name"`
	Phone   string      `json:"phone"`
}

// PlanStatus is the artist's current subscription state within the profile
type PlanStatus struct {
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Document is an uploaded verification document reference
type Document struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Profile is the server-owned artist aggregate, fetched per page view and
// never persisted client-side.
type Profile struct {
	ID          json.Number       `json:"id"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	City        string            `json:"city,omitempty"`
	Credits     int               `json:"credits"`
	Plan        *PlanStatus       `json:"plan,omitempty"`
	Documents   []Document        `json:"documents,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// Plan is a purchasable subscription plan
type Plan struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PriceCents   int    `json:"price_cents"`
	DurationDays int    `json:"duration_days"`
	Credits      int    `json:"credits"`
	Description  string `json:"description,omitempty"`
}

// Payment is one historical payment record
type Payment struct {
	ID        int64  `json:"id"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Method    string `json:"method,omitempty"`
	PlanName  string `json:"plan_name,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Ticket is a support ticket raised by the artist
type Ticket struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Referral is one referred artist and its reward state
type Referral struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Status        string `json:"status"`
	RewardCredits int    `json:"reward_credits"`
}
