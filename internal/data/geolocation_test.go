package data

import (
	"context"
	"testing"

	"venues-go/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		body string
		want biz.Coordinate
	}{
		{"numeric strings", `{"ip":"8.8.8.8","latitude":"37.42240","longitude":"-122.08421"}`, biz.Coordinate{Lat: 37.4224, Lng: -122.08421}},
		{"bare numbers", `{"ip":"8.8.8.8","latitude":51.5,"longitude":-0.12}`, biz.Coordinate{Lat: 51.5, Lng: -0.12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{body: tt.body}
			d, _ := newTestData(t, rec)
			got, err := NewLocationRepo(d, testLogger).Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
			req := rec.last(t)
			if req.path != "/ipgeo" || req.query.Get("apiKey") != "geokey" {
				t.Errorf("request = %s %v", req.path, req.query)
			}
		})
	}
}

func TestResolveLookupFailed(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non numeric", 200, `{"latitude":"north","longitude":"-122.1"}`},
		{"missing", 200, `{"ip":"8.8.8.8"}`},
		{"out of range", 200, `{"latitude":"123.4","longitude":"10"}`},
		{"unauthorized", 401, `{"message":"Provided API key is not valid."}`},
		{"not json", 200, `<html></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestData(t, &recorder{status: tt.status, body: tt.body})
			_, err := NewLocationRepo(d, testLogger).Resolve(context.Background())
			if !errors.Is(err, biz.ErrLookupFailed) {
				t.Errorf("err = %v, want ErrLookupFailed", err)
			}
		})
	}
}
