package steam

import "errors"

var (
	// ErrPrivateProfile means the Steam profile or game details are not
	// publicly visible, so the library cannot be synced.
	ErrPrivateProfile = errors.New("steam profile is private")

	// ErrAppNotFound means the store has no entry for the requested app ID.
	ErrAppNotFound = errors.New("app not found on steam store")

	// ErrRateLimited means Steam returned 429 and the caller should back off.
	ErrRateLimited = errors.New("rate limited by steam")
)
