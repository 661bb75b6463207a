package domain

// Placeholder values substituted for missing optional provider fields.
const (
	NoReviewText   = "no review available"
	UnknownDate    = "unknown date"
	UnknownAddress = "unknown address"
)

// Place is the normalized result of decoding one provider place
// payload. Values are never mutated after decode; sharing across
// readers is safe.
type Place struct {
	Name           string
	Address        string
	Rating         float64
	Lat, Lon       float64
	PriceLevel     *int
	LatestReview   string
	ReviewRating   *float64
	ReviewDate     string // DD/MM/YYYY or the unknown-date placeholder
	PhotoReference *string
}
