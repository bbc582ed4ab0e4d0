package service

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"venues-go/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// searchRepo 只实现地图控制器用到的 Search。
type searchRepo struct {
	biz.VenueRepo
	mu    sync.Mutex
	boxes []biz.BoundingBox
}

func (r *searchRepo) Search(_ context.Context, _ string, box biz.BoundingBox) ([]*biz.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes = append(r.boxes, box)
	return nil, nil
}

func (r *searchRepo) searched() []biz.BoundingBox {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]biz.BoundingBox(nil), r.boxes...)
}

// mapStore 只实现地图控制器用到的方法。
type mapStore struct {
	biz.VenueStore
	mu     sync.Mutex
	venues []*biz.Venue
}

func (s *mapStore) Location(context.Context) (biz.Coordinate, bool) { return biz.Coordinate{}, false }

func (s *mapStore) ClearMapState(ctx context.Context) { s.SetSearchResults(ctx, nil) }

func (s *mapStore) SetSearchResults(_ context.Context, venues []*biz.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues = venues
}

func (s *mapStore) SearchResults(context.Context) []*biz.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.venues
}

type mapEnv struct {
	srv    *httptest.Server
	repo   *searchRepo
	maps   *biz.MapController
	remote *RemoteMap
}

func newMapEnv(t *testing.T) *mapEnv {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	opts := &biz.MapOptions{
		Zoom:          14,
		DefaultCenter: biz.Coordinate{Lat: 40.7128, Lng: -74.006},
		DefaultIcon:   "images/default.png",
		DetailURL:     "venue.html",
	}
	e := &mapEnv{repo: &searchRepo{}, remote: NewRemoteMap()}
	e.maps = biz.NewMapController(e.repo, &mapStore{}, e.remote, opts, logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = e.maps.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	svc := NewVenueService(logger, nil, nil, e.maps, e.remote)
	hs := http.NewServer()
	hs.Route("/").POST("/map/show", svc.MapShow)
	e.srv = httptest.NewServer(hs)
	t.Cleanup(e.srv.Close)
	return e
}

func (e *mapEnv) post(t *testing.T, path, contentType, body string) int {
	t.Helper()
	req, err := nethttp.NewRequest(nethttp.MethodPost, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := nethttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func (e *mapEnv) waitActive(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		s, err := e.maps.Snapshot(ctx)
		cancel()
		if err == nil && s.State == biz.MapActive && len(e.repo.searched()) > 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("map not active with a search: state=%v err=%v", s.StateName, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMapShowWithoutBody(t *testing.T) {
	e := newMapEnv(t)
	if code := e.post(t, "/map/show", "", ""); code != nethttp.StatusAccepted {
		t.Fatalf("POST /map/show without body = %d, want 202", code)
	}
	e.waitActive(t)
	box := e.repo.searched()[0]
	c := biz.Coordinate{Lat: 40.7128, Lng: -74.006}
	if !(box.SouthWest.Lat < c.Lat && c.Lat < box.NorthEast.Lat) {
		t.Errorf("search box %v does not surround the default center", box)
	}
}

func TestMapShowWithViewport(t *testing.T) {
	e := newMapEnv(t)
	body := `{"sw":{"lat":40.70,"lng":-74.02},"ne":{"lat":40.76,"lng":-73.95}}`
	if code := e.post(t, "/map/show", "application/json", body); code != nethttp.StatusAccepted {
		t.Fatalf("POST /map/show with viewport = %d, want 202", code)
	}
	e.waitActive(t)
	want := biz.BoundingBox{
		SouthWest: biz.Coordinate{Lat: 40.70, Lng: -74.02},
		NorthEast: biz.Coordinate{Lat: 40.76, Lng: -73.95},
	}
	if got := e.repo.searched()[0]; got != want {
		t.Errorf("search box = %v, want %v", got, want)
	}
}

func TestMapShowBadViewport(t *testing.T) {
	e := newMapEnv(t)
	if code := e.post(t, "/map/show", "application/json", `{"sw":{"lat":40.70}}`); code != nethttp.StatusBadRequest {
		t.Errorf("POST /map/show with partial viewport = %d, want 400", code)
	}
}
