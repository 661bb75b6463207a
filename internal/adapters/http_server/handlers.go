// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"placefinder/internal/app"
	"placefinder/internal/domain"
)

type Handlers struct {
	S     *app.SearchService
	Links domain.LinkBuilder
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/search", h.search)
	s.mux.Get("/v1/search/last", h.lastResults)
	s.mux.Get("/v1/history", h.history)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- wire DTOs ----

type placeDTO struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       float64  `json:"rating"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	PriceLevel   *int     `json:"price_level,omitempty"`
	LatestReview string   `json:"latest_review"`
	ReviewRating *float64 `json:"review_rating,omitempty"`
	ReviewDate   string   `json:"review_date"`
	PhotoURL     string   `json:"photo_url"`
	MapURL       string   `json:"map_url"`
}

type searchResponse struct {
	Query  string     `json:"query"`
	Count  int        `json:"count"`
	Places []placeDTO `json:"places"`
}

func (h *Handlers) toDTO(places []domain.Place) []placeDTO {
	out := make([]placeDTO, 0, len(places))
	for _, p := range places {
		out = append(out, placeDTO{
			Name:         p.Name,
			Address:      p.Address,
			Rating:       p.Rating,
			Latitude:     p.Lat,
			Longitude:    p.Lon,
			PriceLevel:   p.PriceLevel,
			LatestReview: p.LatestReview,
			ReviewRating: p.ReviewRating,
			ReviewDate:   p.ReviewDate,
			PhotoURL:     h.Links.PhotoURL(p.PhotoReference),
			MapURL:       h.Links.MapURL(p.Lat, p.Lon),
		})
	}
	return out
}

// ---- handlers ----

// parseSearchQuery builds a domain.SearchQuery from URL parameters.
// lat and lon together opt into a circular bias; radius defaults to
// 5km when omitted.
func parseSearchQuery(r *http.Request) (domain.SearchQuery, error) {
	qs := r.URL.Query()

	q := domain.SearchQuery{
		Text:    qs.Get("q"),
		Filters: domain.Filters{MaxPrice: 4, MinRating: 0},
	}

	if v := qs.Get("max_price"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("max_price must be an integer")
		}
		q.Filters.MaxPrice = n
	}
	if v := qs.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, errors.New("min_rating must be a number")
		}
		q.Filters.MinRating = f
	}

	latS, lonS := qs.Get("lat"), qs.Get("lon")
	if latS == "" && lonS == "" {
		return q, nil
	}
	if latS == "" || lonS == "" {
		return q, errors.New("lat and lon must be supplied together")
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}
	radius := 5000.0
	if v := qs.Get("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return q, errors.New("radius must be a number")
		}
	}
	q.Bias = &domain.Bias{Lat: lat, Lon: lon, RadiusM: radius}
	return q, nil
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}

	places, err := h.S.Search(r.Context(), q, r.URL.Query().Get("session"))
	if err != nil {
		if app.IsValidationErr(err) {
			writeProblem(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
			return
		}
		// transport failure at the provider boundary: no results plus
		// an explanation, never a panic past this point
		writeProblem(w, http.StatusBadGateway, "Places provider error", err.Error())
		return
	}

	resp := searchResponse{Query: q.Text, Count: len(places), Places: h.toDTO(places)}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to write search response")
	}
}

func (h *Handlers) lastResults(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		writeProblem(w, http.StatusBadRequest, "Missing session", "session query parameter is required")
		return
	}
	places, ok, err := h.S.LastResults(r.Context(), session)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Session store error", err.Error())
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no stored results for session")
		return
	}

	resp := searchResponse{Count: len(places), Places: h.toDTO(places)}
	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write lastResults body")
	}
}

type historyItemDTO struct {
	ID        int64    `json:"id"`
	Query     string   `json:"query"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	RadiusM   *float64 `json:"radius_m,omitempty"`
	MaxPrice  int      `json:"max_price"`
	MinRating float64  `json:"min_rating"`
	Results   int      `json:"results"`
	CreatedAt string   `json:"created_at"`
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	recs, err := h.S.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, app.ErrHistoryDisabled) {
			writeProblem(w, http.StatusNotFound, "Not Found", "search history is disabled")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "History error", err.Error())
		return
	}

	items := make([]historyItemDTO, 0, len(recs))
	for _, rec := range recs {
		items = append(items, historyItemDTO{
			ID:        rec.ID,
			Query:     rec.Query,
			Lat:       rec.Lat,
			Lon:       rec.Lon,
			RadiusM:   rec.RadiusM,
			MaxPrice:  rec.MaxPrice,
			MinRating: rec.MinRating,
			Results:   rec.Results,
			CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"count": len(items), "searches": items}); err != nil {
		log.Error().Err(err).Msg("failed to write history response")
	}
}
