package app_test

import (
	"context"
	"errors"
	"testing"

	"placefinder/internal/app"
	"placefinder/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	raw   []map[string]any
	err   error
	calls int
}

func (f *fakePlaces) SearchText(ctx context.Context, query string, bias *domain.Bias) ([]map[string]any, error) {
	f.calls++
	return f.raw, f.err
}

type fakeSession struct {
	store map[string][]domain.Place
	puts  int
}

func (s *fakeSession) Put(ctx context.Context, session string, places []domain.Place) error {
	if s.store == nil {
		s.store = map[string][]domain.Place{}
	}
	s.store[session] = places
	s.puts++
	return nil
}

func (s *fakeSession) Get(ctx context.Context, session string) ([]domain.Place, bool, error) {
	v, ok := s.store[session]
	return v, ok, nil
}

func (s *fakeSession) Del(ctx context.Context, session string) error {
	delete(s.store, session)
	return nil
}

type fakeHistory struct {
	recs []domain.SearchRecord
}

func (h *fakeHistory) RecordSearch(ctx context.Context, rec domain.SearchRecord) error {
	h.recs = append(h.recs, rec)
	return nil
}

func (h *fakeHistory) RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	return h.recs, nil
}

func place(name string, rating float64) map[string]any {
	return map[string]any{
		"displayName":      map[string]any{"text": name},
		"formattedAddress": "somewhere",
		"location":         map[string]any{"latitude": 1.0, "longitude": 2.0},
		"rating":           rating,
	}
}

func query(text string, maxPrice int, minRating float64) domain.SearchQuery {
	return domain.SearchQuery{Text: text, Filters: domain.Filters{MaxPrice: maxPrice, MinRating: minRating}}
}

// ---- tests ----

func TestSearch_FiltersByRatingKeepingOrder(t *testing.T) {
	pc := &fakePlaces{raw: []map[string]any{
		place("Sushi A", 4.5),
		place("Sushi B", 2.0),
		place("Sushi C", 4.0),
	}}
	svc := app.NewSearchService(pc, nil, nil)

	out, err := svc.Search(context.Background(), query("sushi", 4, 3.0), "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Sushi A" || out[1].Name != "Sushi C" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestSearch_PriceCeiling(t *testing.T) {
	cheap := place("Cheap", 4.0)
	cheap["priceLevel"] = 1.0
	fancy := place("Fancy", 5.0)
	fancy["priceLevel"] = 4.0
	unpriced := place("Unpriced", 4.0)

	pc := &fakePlaces{raw: []map[string]any{cheap, fancy, unpriced}}
	svc := app.NewSearchService(pc, nil, nil)

	out, err := svc.Search(context.Background(), query("food", 2, 0), "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Cheap" || out[1].Name != "Unpriced" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestSearch_MalformedEntrySkippedNotFatal(t *testing.T) {
	broken := place("Broken", 4.0)
	delete(broken, "location")
	pc := &fakePlaces{raw: []map[string]any{broken, place("Fine", 4.0)}}
	svc := app.NewSearchService(pc, nil, nil)

	out, err := svc.Search(context.Background(), query("x", 4, 0), "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Fine" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestSearch_EmptyProviderResult(t *testing.T) {
	svc := app.NewSearchService(&fakePlaces{}, nil, nil)
	out, err := svc.Search(context.Background(), query("x", 4, 0), "")
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty sequence, got %+v", out)
	}
}

func TestSearch_BlankQueryRejectedBeforeNetwork(t *testing.T) {
	pc := &fakePlaces{raw: []map[string]any{place("x", 4.0)}}
	svc := app.NewSearchService(pc, nil, nil)

	_, err := svc.Search(context.Background(), query("   ", 4, 0), "")
	if !errors.Is(err, app.ErrBlankQuery) {
		t.Fatalf("expected ErrBlankQuery, got %v", err)
	}
	if pc.calls != 0 {
		t.Fatalf("blank query must not reach the provider, got %d calls", pc.calls)
	}
	if !app.IsValidationErr(err) {
		t.Fatalf("blank query must classify as validation error")
	}
}

func TestSearch_InvalidThresholdsRejected(t *testing.T) {
	svc := app.NewSearchService(&fakePlaces{}, nil, nil)

	if _, err := svc.Search(context.Background(), query("x", 9, 0), ""); !errors.Is(err, app.ErrBadPrice) {
		t.Fatalf("expected ErrBadPrice, got %v", err)
	}
	if _, err := svc.Search(context.Background(), query("x", 4, 7.5), ""); !errors.Is(err, app.ErrBadRating) {
		t.Fatalf("expected ErrBadRating, got %v", err)
	}
	q := query("x", 4, 0)
	q.Bias = &domain.Bias{Lat: 1, Lon: 2, RadiusM: 0}
	if _, err := svc.Search(context.Background(), q, ""); !errors.Is(err, app.ErrBadRadius) {
		t.Fatalf("expected ErrBadRadius, got %v", err)
	}
}

func TestSearch_TransportErrorSurfacedOnce(t *testing.T) {
	boom := errors.New("connection refused")
	svc := app.NewSearchService(&fakePlaces{err: boom}, nil, nil)

	out, err := svc.Search(context.Background(), query("x", 4, 0), "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if app.IsValidationErr(err) {
		t.Fatalf("transport error must not classify as validation error")
	}
	if out != nil {
		t.Fatalf("expected no results on transport error, got %+v", out)
	}
}

func TestSearch_SessionReplacedNotMerged(t *testing.T) {
	pc := &fakePlaces{raw: []map[string]any{place("A", 4.0), place("B", 4.0)}}
	ss := &fakeSession{}
	svc := app.NewSearchService(pc, ss, nil)

	if _, err := svc.Search(context.Background(), query("x", 4, 0), "s1"); err != nil {
		t.Fatalf("err: %v", err)
	}

	// second search returns a different, smaller set; the stored set
	// must be fully replaced, not merged
	pc.raw = []map[string]any{place("C", 4.0)}
	if _, err := svc.Search(context.Background(), query("y", 4, 0), "s1"); err != nil {
		t.Fatalf("err: %v", err)
	}

	got, ok, err := svc.LastResults(context.Background(), "s1")
	if err != nil || !ok {
		t.Fatalf("expected stored results, ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Name != "C" {
		t.Fatalf("expected last-search-wins, got %+v", got)
	}
	if ss.puts != 2 {
		t.Fatalf("expected 2 puts, got %d", ss.puts)
	}
}

func TestSearch_HistoryRecorded(t *testing.T) {
	pc := &fakePlaces{raw: []map[string]any{place("A", 4.0)}}
	hist := &fakeHistory{}
	svc := app.NewSearchService(pc, nil, hist)

	q := query("tacos", 3, 2.5)
	q.Bias = &domain.Bias{Lat: 48.86, Lon: 2.33, RadiusM: 1000}
	if _, err := svc.Search(context.Background(), q, ""); err != nil {
		t.Fatalf("err: %v", err)
	}

	if len(hist.recs) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(hist.recs))
	}
	rec := hist.recs[0]
	if rec.Query != "tacos" || rec.Results != 1 || rec.MaxPrice != 3 || rec.MinRating != 2.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Lat == nil || *rec.Lat != 48.86 || rec.RadiusM == nil || *rec.RadiusM != 1000 {
		t.Fatalf("bias not recorded: %+v", rec)
	}
}

func TestRecent_DisabledWithoutRepository(t *testing.T) {
	svc := app.NewSearchService(&fakePlaces{}, nil, nil)
	if _, err := svc.Recent(context.Background(), 10); !errors.Is(err, app.ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}
}
