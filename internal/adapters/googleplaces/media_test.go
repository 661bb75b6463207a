package googleplaces_test

import (
	"strings"
	"testing"

	"placefinder/internal/adapters/googleplaces"
)

func TestLinks_PhotoURL(t *testing.T) {
	l := googleplaces.NewLinks("secret")

	if got := l.PhotoURL(nil); got != googleplaces.PlaceholderPhotoURL {
		t.Fatalf("nil ref: %q", got)
	}
	empty := ""
	if got := l.PhotoURL(&empty); got != googleplaces.PlaceholderPhotoURL {
		t.Fatalf("empty ref: %q", got)
	}

	ref := "AUacShh123"
	got := l.PhotoURL(&ref)
	if !strings.HasPrefix(got, "https://maps.googleapis.com/maps/api/place/photo?maxwidth=400") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "photo_reference=AUacShh123") || !strings.Contains(got, "key=secret") {
		t.Fatalf("missing parameters: %q", got)
	}
}

func TestLinks_MapURL(t *testing.T) {
	l := googleplaces.NewLinks("secret")
	got := l.MapURL(48.86, 2.33)
	if got != "https://www.google.com/maps/search/?api=1&query=48.86,2.33" {
		t.Fatalf("unexpected map url: %q", got)
	}
}
