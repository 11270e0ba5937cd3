package session

// Repo is the session-scoped storage behind the Store. Implementations live
// for a single portal session and are wiped on logout; nothing written here
// is expected to survive a restart.
type Repo interface {
	// Set stores a value under key
	Set(key, value string) error

	// Get retrieves a value by key, returning an error when absent
	Get(key string) (string, error)

	// Delete removes a key, without error when already absent
	Delete(key string) error

	// Clear removes every key in the scope
	Clear() error
}
