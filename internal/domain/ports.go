package domain

import "context"

// PlacesClient issues one text-search call and returns the raw place
// objects in provider order. A successful call with zero places
// returns an empty slice, not an error.
type PlacesClient interface {
	SearchText(ctx context.Context, query string, bias *Bias) ([]map[string]any, error)
}

// SessionStore holds the last result set per session with
// replace-not-merge semantics: Put overwrites the whole entry.
type SessionStore interface {
	Put(ctx context.Context, session string, places []Place) error
	Get(ctx context.Context, session string) ([]Place, bool, error)
	Del(ctx context.Context, session string) error
}

// HistoryRepository records executed searches and lists recent ones,
// newest first.
type HistoryRepository interface {
	RecordSearch(ctx context.Context, rec SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error)
}

// LinkBuilder derives browser-facing URLs from already-decoded
// fields. No network calls.
type LinkBuilder interface {
	PhotoURL(ref *string) string
	MapURL(lat, lon float64) string
}
