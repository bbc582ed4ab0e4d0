package biz

import (
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
)

func TestFormatTipDate(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{1576195200, "13 Dec 2019 00:00"},
		{1576195200 + 9*3600 + 5*60, "13 Dec 2019 09:05"},
		{1577923200, "2 Jan 2020 00:00"},
		{0, "1 Jan 1970 00:00"},
	}
	for _, tt := range tests {
		if got := FormatTipDate(tt.unix); got != tt.want {
			t.Errorf("FormatTipDate(%d) = %q, want %q", tt.unix, got, tt.want)
		}
	}
}

func TestVenueIcon(t *testing.T) {
	v := &Venue{Categories: []Category{
		{Name: "Bar", Icon: Icon{Prefix: "x/", Suffix: ".png"}},
		{Name: "Cafe", Icon: Icon{Prefix: "a/", Suffix: "b.png"}, Primary: true},
	}}
	if got, ok := VenueIcon(v, 32, false); !ok || got != "a/32b.png" {
		t.Errorf("VenueIcon = %q, %v, want a/32b.png", got, ok)
	}
	if got, _ := VenueIcon(v, 88, true); got != "a/bg_88b.png" {
		t.Errorf("VenueIcon with bg = %q", got)
	}

	noPrimary := &Venue{Categories: []Category{{Name: "Bar", Icon: Icon{Prefix: "x/", Suffix: ".png"}}}}
	if got, ok := VenueIcon(noPrimary, 32, false); ok || got != "" {
		t.Errorf("VenueIcon without primary = %q, %v", got, ok)
	}
	if _, ok := VenueIcon(nil, 32, false); ok {
		t.Error("VenueIcon(nil) should report no icon")
	}
}

func TestCategoryNames(t *testing.T) {
	v := &Venue{Categories: []Category{{Name: "Coffee Shop"}, {Name: "Bakery"}}}
	if got := CategoryNames(v); got != "Coffee Shop, Bakery" {
		t.Errorf("CategoryNames = %q", got)
	}
	if got := CategoryNames(&Venue{}); got != "" {
		t.Errorf("CategoryNames(empty) = %q", got)
	}
}

func TestAuthorFullName(t *testing.T) {
	if got := (Author{FirstName: "Ana", LastName: "Lee"}).FullName(); got != "Ana Lee" {
		t.Errorf("FullName = %q", got)
	}
	if got := (Author{FirstName: "Ana"}).FullName(); got != "Ana" {
		t.Errorf("FullName without last name = %q", got)
	}
}

func TestMapLink(t *testing.T) {
	got := MapLink(Coordinate{Lat: 40.7128, Lng: -74.006})
	want := "https://www.google.com/maps/search/?api=1&query=40.7128,-74.006"
	if got != want {
		t.Errorf("MapLink = %q, want %q", got, want)
	}
}

func TestNewCoordinate(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {40.7128, -74.006}}
	for _, c := range valid {
		if _, err := NewCoordinate(c[0], c[1]); err != nil {
			t.Errorf("NewCoordinate(%v, %v) unexpected error: %v", c[0], c[1], err)
		}
	}
	invalid := [][2]float64{{90.0001, 0}, {-91, 0}, {0, 180.5}, {0, -181}}
	for _, c := range invalid {
		_, err := NewCoordinate(c[0], c[1])
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("NewCoordinate(%v, %v) err = %v, want ErrInvalidCoordinate", c[0], c[1], err)
		}
	}
}

func TestExploreResultRecommended(t *testing.T) {
	var nilResult *ExploreResult
	if nilResult.Recommended() != nil {
		t.Error("nil result should have no recommended venues")
	}
	r := &ExploreResult{Groups: []Group{
		{Name: "nearby", Venues: []*Venue{{ID: "n"}}},
		{Name: RecommendedGroup, Venues: []*Venue{{ID: "r"}}},
	}}
	got := r.Recommended()
	if len(got) != 1 || got[0].ID != "r" {
		t.Errorf("Recommended = %v", got)
	}
	if (&ExploreResult{Groups: []Group{{Name: "nearby"}}}).Recommended() != nil {
		t.Error("missing recommended group should yield nil")
	}
}
