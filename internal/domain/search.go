package domain

import "time"

// Bias steers, but does not strictly constrain, provider results
// toward a circular area.
type Bias struct {
	Lat, Lon float64
	RadiusM  float64
}

// Filters are post-fetch thresholds applied after decode.
type Filters struct {
	MaxPrice  int     // 0..4
	MinRating float64 // 0.0..5.0
}

type SearchQuery struct {
	Text    string
	Bias    *Bias
	Filters Filters
}

// SearchRecord is one executed search as persisted to history.
type SearchRecord struct {
	ID        int64
	Query     string
	Lat, Lon  *float64
	RadiusM   *float64
	MaxPrice  int
	MinRating float64
	Results   int
	CreatedAt time.Time
}
