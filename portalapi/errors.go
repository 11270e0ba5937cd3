package portalapi

import "encoding/json"

// APIError is a structured rejection from the upstream API. Error returns
// the server's own message untouched: the server is the source of truth for
// why an action failed and the portal never rewrites or guesses it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// genericFailureMessage is used when the server's error body carries neither
// an error nor a message field.
const genericFailureMessage = "request failed"

// serverMessage extracts the user-facing message from an error body,
// preferring "error" over "message" over the generic fallback.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return genericFailureMessage
}
