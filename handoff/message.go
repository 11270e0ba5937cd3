package handoff

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// MessageTypePing is a liveness probe from the sender; it is acknowledged in
// the log and never touches session state.
const MessageTypePing = "ping"

// Message is one cross-context message: the sender's origin as reported by
// the channel, plus the structured payload.
type Message struct {
	Origin string
	Data   map[string]any
}

// Credentials is a token set extracted from a handoff payload
type Credentials struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Accepted field-name spellings for each credential. The admin console and
// older portal builds disagree on casing, so both are honoured.
var (
	accessKeys  = []string{"access", "accessToken"}
	refreshKeys = []string{"refresh", "refreshToken"}
	userIDKeys  = []string{"user_id", "userId"}
)

// ExtractCredentials pulls a credential set out of a payload. The second
// return value reports whether the payload was recognized as a credential
// handoff at all, i.e. whether any of the accepted fields was present.
func ExtractCredentials(data map[string]any) (Credentials, bool) {
	creds := Credentials{
		AccessToken:  stringField(data, accessKeys),
		RefreshToken: stringField(data, refreshKeys),
		UserID:       stringField(data, userIDKeys),
	}
	recognized := creds.AccessToken != "" || creds.RefreshToken != "" || creds.UserID != ""
	return creds, recognized
}

// ParseFragment parses a URL-fragment handoff of the form
// "access=...&refresh=...&user_id=...". The second return value reports
// whether the fragment carried any credential field.
func ParseFragment(fragment string) (Credentials, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return Credentials{}, false
	}

	data := make(map[string]any, len(values))
	for key := range values {
		data[key] = values.Get(key)
	}
	return ExtractCredentials(data)
}

// stringField returns the first non-empty value among the accepted key
// spellings, converting the JSON number forms a user id may arrive in.
func stringField(data map[string]any, keys []string) string {
	for _, key := range keys {
		value, ok := data[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}
