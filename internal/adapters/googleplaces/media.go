package googleplaces

import (
	"fmt"
	"net/url"
)

// PlaceholderPhotoURL is returned for places with no photos.
const PlaceholderPhotoURL = "https://via.placeholder.com/400x300?text=no+image+available"

// Links builds browser-facing photo and map URLs from fields already
// present on a decoded place. It implements domain.LinkBuilder.
type Links struct{ key string }

func NewLinks(key string) Links { return Links{key: key} }

// PhotoURL returns a fixed-width (400px) photo-fetch URL for ref, or
// the placeholder when the place has no photo reference.
func (l Links) PhotoURL(ref *string) string {
	if ref == nil || *ref == "" {
		return PlaceholderPhotoURL
	}
	return fmt.Sprintf("https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photo_reference=%s&key=%s",
		url.QueryEscape(*ref), url.QueryEscape(l.key))
}

// MapURL returns a Google Maps search link for the coordinates.
func (l Links) MapURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lon)
}
