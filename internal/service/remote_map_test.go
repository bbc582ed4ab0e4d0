package service

import (
	"math"
	"testing"

	"venues-go/internal/biz"
)

func TestViewportAround(t *testing.T) {
	c := biz.Coordinate{Lat: 40.7128, Lng: -74.006}
	box := viewportAround(c, 14)
	if !(box.SouthWest.Lat < c.Lat && c.Lat < box.NorthEast.Lat) {
		t.Errorf("latitude %v not inside %v", c.Lat, box)
	}
	if !(box.SouthWest.Lng < c.Lng && c.Lng < box.NorthEast.Lng) {
		t.Errorf("longitude %v not inside %v", c.Lng, box)
	}
	// 1024px 在 z14 约为 1024/256/2^14*360 度
	want := 1024.0 / 256 / math.Exp2(14) * 360
	if got := box.NorthEast.Lng - box.SouthWest.Lng; math.Abs(got-want) > 1e-9 {
		t.Errorf("longitude span = %v, want %v", got, want)
	}
	if wider := viewportAround(c, 10); wider.NorthEast.Lng-wider.SouthWest.Lng <= want {
		t.Error("lower zoom should cover a wider span")
	}
}

func TestViewportAroundClamps(t *testing.T) {
	box := viewportAround(biz.Coordinate{Lat: 89, Lng: 179.99}, 0)
	if box.NorthEast.Lat > maxMercatorLat || box.NorthEast.Lng > 180 || box.SouthWest.Lng < -180 {
		t.Errorf("box not clamped: %v", box)
	}
}

func TestRemoteMapWidgetLifecycle(t *testing.T) {
	m := NewRemoteMap()
	if _, ok := m.View(); ok {
		t.Fatal("no widget expected before NewWidget")
	}
	if m.Fire(biz.EventMoveEnd) {
		t.Fatal("Fire without a widget should report false")
	}

	reported := biz.BoundingBox{
		SouthWest: biz.Coordinate{Lat: 1, Lng: 2},
		NorthEast: biz.Coordinate{Lat: 3, Lng: 4},
	}
	m.Report(reported)
	w, err := m.NewWidget(biz.WidgetConfig{Center: biz.Coordinate{Lat: 2, Lng: 3}, Zoom: 14})
	if err != nil {
		t.Fatalf("NewWidget: %v", err)
	}
	if got := w.Bounds(); got != reported {
		t.Errorf("Bounds = %v, want reported %v", got, reported)
	}

	w.AddTileLayer(biz.TileLayer{URL: "https://t/{id}/{z}/{x}/{y}.png?access_token={accessToken}", ID: "streets", AccessToken: "tok"})
	w.ReplaceMarkers([]biz.Marker{{VenueID: "v1"}})
	fired := 0
	w.On(biz.EventMoveEnd, func() { fired++ })
	if !m.Fire(biz.EventMoveEnd) || fired != 1 {
		t.Errorf("moveend handler fired %d times", fired)
	}
	if m.Fire(biz.EventPopupOpen) {
		t.Error("unregistered event should report false")
	}

	v, ok := m.View()
	if !ok {
		t.Fatal("View should report the active widget")
	}
	if v.Tiles != "https://t/streets/{z}/{x}/{y}.png?access_token=tok" || len(v.Markers) != 1 || v.Zoom != 14 {
		t.Errorf("View = %+v", v)
	}

	moved := biz.BoundingBox{NorthEast: biz.Coordinate{Lat: 5, Lng: 5}}
	m.Report(moved)
	if got := w.Bounds(); got != moved {
		t.Errorf("Bounds after Report = %v", got)
	}

	w.Remove()
	if _, ok := m.View(); ok {
		t.Error("View after Remove should be empty")
	}
	if m.Fire(biz.EventMoveEnd) {
		t.Error("Fire after Remove should report false")
	}
	next, _ := m.NewWidget(biz.WidgetConfig{Zoom: 14})
	if got := next.Bounds(); got != moved {
		t.Errorf("reported bounds should survive Remove, got %v", got)
	}
}
