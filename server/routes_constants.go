package server

// Route path constants
// All portal routes are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteLogin      = "/login"
	RouteRequestOTP = "/auth/request-otp"
	RouteLoginOTP   = "/auth/login"
	RouteReceive    = "/auth/receive"
	RouteHealth     = "/health"
	RouteMetrics    = "/metrics"

	// Protected routes
	RouteHome         = "/"
	RouteLogout       = "/auth/logout"
	RouteLeads        = "/leads"
	RouteLeadClaim    = "/leads/{leadID}/claim"
	RouteLeadBook     = "/leads/{leadID}/book"
	RouteClaimedLeads = "/leads/claimed"
	RouteProfile      = "/profile"
	RoutePlans        = "/plans"
	RoutePayments     = "/payments"
	RouteTickets      = "/tickets"
	RouteReferrals    = "/referrals"
)
