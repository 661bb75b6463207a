package app

import (
	"strconv"
	"strings"
	"time"

	"placefinder/internal/domain"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// lookupFloat: number at path (float64/int/string like "4,5").
func lookupFloat(m map[string]any, path string) *float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// lookupInt: integer at path (float64/int/string).
func lookupInt(m map[string]any, path string) *int {
	if f := lookupFloat(m, path); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

/********** place decode **********/

// mapPlace decodes one raw provider object into a Place. ok=false
// means a core field (name, coordinates) is missing or malformed and
// the object must be skipped; the batch continues regardless.
func mapPlace(p map[string]any) (domain.Place, bool) {
	name := lookupStr(p, "displayName.text")
	if name == "" {
		return domain.Place{}, false
	}
	lat := lookupFloat(p, "location.latitude")
	lon := lookupFloat(p, "location.longitude")
	if lat == nil || lon == nil {
		return domain.Place{}, false
	}

	// rating defaults to 0.0 on absence or coercion failure; never a drop.
	rating := 0.0
	if f := lookupFloat(p, "rating"); f != nil {
		rating = *f
	}

	addr := lookupStr(p, "formattedAddress")
	if addr == "" {
		addr = domain.UnknownAddress
	}

	rec := domain.Place{
		Name:           name,
		Address:        addr,
		Rating:         rating,
		Lat:            *lat,
		Lon:            *lon,
		PriceLevel:     lookupInt(p, "priceLevel"),
		PhotoReference: photoRef(p),
	}
	rec.LatestReview, rec.ReviewRating, rec.ReviewDate = selectReview(p)
	return rec, true
}

// photoRef extracts the trailing path segment of the first photo's
// resource name. Nil when the place has no photos.
func photoRef(p map[string]any) *string {
	photos, ok := lookupAny(p, "photos").([]any)
	if !ok || len(photos) == 0 {
		return nil
	}
	first, ok := photos[0].(map[string]any)
	if !ok {
		return nil
	}
	name, _ := first["name"].(string)
	if name == "" {
		return nil
	}
	seg := name[strings.LastIndexByte(name, '/')+1:]
	if seg == "" {
		return nil
	}
	return &seg
}

/********** review selector **********/

// selectReview picks the first review in provider order as the
// representative one. The list is provider-ranked; index-0 access,
// never a re-sort.
func selectReview(p map[string]any) (text string, rating *float64, date string) {
	text, date = domain.NoReviewText, domain.UnknownDate

	reviews, ok := lookupAny(p, "reviews").([]any)
	if !ok || len(reviews) == 0 {
		return
	}
	first, ok := reviews[0].(map[string]any)
	if !ok {
		return
	}

	// Review text arrives either flat or as a localized wrapper.
	if s := lookupStr(first, "text"); s != "" {
		text = s
	} else if s := lookupStr(first, "text.text"); s != "" {
		text = s
	}

	rating = lookupFloat(first, "rating")

	if ts := lookupStr(first, "publishTime"); ts != "" {
		date = formatReviewDate(ts)
	}
	return
}

// formatReviewDate reformats an ISO-8601-like publish timestamp to
// DD/MM/YYYY. The trailing UTC marker is tolerated; any parse failure
// yields the unknown-date placeholder, never an error.
func formatReviewDate(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("02/01/2006")
	}
	s := strings.TrimSuffix(ts, "Z")
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return domain.UnknownDate
}

/********** post-fetch filter **********/

// keep reports whether a decoded place passes the budget and rating
// thresholds. The two conditions are an unordered conjunction; a
// place with no price level is never dropped on price.
func keep(p domain.Place, f domain.Filters) bool {
	if p.PriceLevel != nil && *p.PriceLevel > f.MaxPrice {
		return false
	}
	return p.Rating >= f.MinRating
}
