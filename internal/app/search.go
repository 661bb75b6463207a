package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"placefinder/internal/domain"
)

// Validation errors, rejected before any network call.
var (
	ErrBlankQuery = errors.New("query must not be blank")
	ErrBadRadius  = errors.New("bias radius must be positive")
	ErrBadPrice   = errors.New("max price must be between 0 and 4")
	ErrBadRating  = errors.New("min rating must be between 0.0 and 5.0")
)

// ErrHistoryDisabled is returned by Recent when no history repository
// is configured.
var ErrHistoryDisabled = errors.New("search history is not configured")

// SearchService runs the search-and-normalization pipeline: one
// provider call, per-object decode with isolated failure boundaries,
// post-fetch filtering, then best-effort session/history bookkeeping.
type SearchService struct {
	places  domain.PlacesClient
	session domain.SessionStore
	history domain.HistoryRepository
}

// NewSearchService wires the pipeline. session and history may be nil;
// the corresponding bookkeeping is then skipped.
func NewSearchService(c domain.PlacesClient, s domain.SessionStore, h domain.HistoryRepository) *SearchService {
	return &SearchService{places: c, session: s, history: h}
}

// Search validates q, queries the provider once, and returns the
// decoded, filtered records in provider order. Zero remaining records
// is an empty slice with a nil error, distinct from a transport
// failure. When session is non-empty the stored last result set for
// that session is fully replaced, last search wins.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery, session string) ([]domain.Place, error) {
	if err := validate(q); err != nil {
		return nil, err
	}

	raw, err := s.places.SearchText(ctx, q.Text, q.Bias)
	if err != nil {
		return nil, fmt.Errorf("places search failed: %w", err)
	}

	out := make([]domain.Place, 0, len(raw))
	for _, obj := range raw {
		rec, ok := mapPlace(obj)
		if !ok {
			continue // malformed entry: skip it, never abort the batch
		}
		if !keep(rec, q.Filters) {
			continue
		}
		out = append(out, rec)
	}

	s.remember(ctx, session, q, out)
	return out, nil
}

// LastResults returns the stored result set for session, if any.
func (s *SearchService) LastResults(ctx context.Context, session string) ([]domain.Place, bool, error) {
	if s.session == nil || session == "" {
		return nil, false, nil
	}
	return s.session.Get(ctx, session)
}

// Recent lists recently executed searches, newest first.
func (s *SearchService) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.RecentSearches(ctx, limit)
}

func validate(q domain.SearchQuery) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrBlankQuery
	}
	if q.Bias != nil && q.Bias.RadiusM <= 0 {
		return ErrBadRadius
	}
	if q.Filters.MaxPrice < 0 || q.Filters.MaxPrice > 4 {
		return ErrBadPrice
	}
	if q.Filters.MinRating < 0 || q.Filters.MinRating > 5 {
		return ErrBadRating
	}
	return nil
}

// IsValidationErr reports whether err is an input-validation failure
// (as opposed to a provider transport failure).
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrBlankQuery) || errors.Is(err, ErrBadRadius) ||
		errors.Is(err, ErrBadPrice) || errors.Is(err, ErrBadRating)
}

// remember is best-effort bookkeeping after a successful search:
// replace the session's last result set and append to history.
// Failures are logged, never surfaced to the caller.
func (s *SearchService) remember(ctx context.Context, session string, q domain.SearchQuery, places []domain.Place) {
	if s.session != nil && session != "" {
		if err := s.session.Put(ctx, session, places); err != nil {
			log.Warn().Err(err).Str("session", session).Msg("store last results failed")
		}
	}
	if s.history != nil {
		rec := domain.SearchRecord{
			Query:     q.Text,
			MaxPrice:  q.Filters.MaxPrice,
			MinRating: q.Filters.MinRating,
			Results:   len(places),
		}
		if q.Bias != nil {
			lat, lon, radius := q.Bias.Lat, q.Bias.Lon, q.Bias.RadiusM
			rec.Lat, rec.Lon, rec.RadiusM = &lat, &lon, &radius
		}
		if err := s.history.RecordSearch(ctx, rec); err != nil {
			log.Warn().Err(err).Str("query", q.Text).Msg("record search history failed")
		}
	}
}
