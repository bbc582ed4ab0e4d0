package biz

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

var testLogger = log.NewStdLogger(io.Discard)

type searchCall struct {
	category string
	box      BoundingBox
}

type fakeRepo struct {
	mu       sync.Mutex
	explore  func(Coordinate) (*ExploreResult, error)
	search   func(n int, category string) ([]*Venue, error)
	tips     func(TipsQuery) ([]*Tip, error)
	explored []Coordinate
	searches []searchCall
	tipCalls []TipsQuery
}

func (r *fakeRepo) Explore(_ context.Context, p Coordinate) (*ExploreResult, error) {
	r.mu.Lock()
	r.explored = append(r.explored, p)
	fn := r.explore
	r.mu.Unlock()
	if fn == nil {
		return &ExploreResult{}, nil
	}
	return fn(p)
}

func (r *fakeRepo) Search(_ context.Context, category string, box BoundingBox) ([]*Venue, error) {
	r.mu.Lock()
	r.searches = append(r.searches, searchCall{category: category, box: box})
	n := len(r.searches)
	fn := r.search
	r.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(n, category)
}

func (r *fakeRepo) Tips(_ context.Context, q TipsQuery) ([]*Tip, error) {
	r.mu.Lock()
	r.tipCalls = append(r.tipCalls, q)
	fn := r.tips
	r.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(q)
}

func (r *fakeRepo) setSearch(fn func(n int, category string) ([]*Venue, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.search = fn
}

func (r *fakeRepo) searchCalls() []searchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.searches)
}

type fakeLocator struct {
	loc   Coordinate
	err   error
	calls int
}

func (l *fakeLocator) Resolve(context.Context) (Coordinate, error) {
	l.calls++
	return l.loc, l.err
}

// memStore 内存版 VenueStore。
type memStore struct {
	mu       sync.Mutex
	explore  *ExploreResult
	search   []*Venue
	selected *Venue
	tips     []*Tip
	loc      *Coordinate
}

func (s *memStore) SetExploreResult(_ context.Context, r *ExploreResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explore = r
}

func (s *memStore) SetSearchResults(_ context.Context, venues []*Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = slices.Clone(venues)
}

func (s *memStore) SetSelected(_ context.Context, v *Venue, tips []*Tip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected, s.tips = v, slices.Clone(tips)
}

func (s *memStore) SetLocation(_ context.Context, c Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc = &c
}

func (s *memStore) ClearMapState(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = nil
}

func (s *memStore) ClearVenueState(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected, s.tips = nil, nil
}

func (s *memStore) ExploreResult(context.Context) *ExploreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explore
}

func (s *memStore) SearchResults(context.Context) []*Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Venue{}, s.search...)
}

func (s *memStore) Selected(context.Context) (*Venue, []*Tip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, append([]*Tip{}, s.tips...)
}

func (s *memStore) Location(context.Context) (Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loc == nil {
		return Coordinate{}, false
	}
	return *s.loc, true
}

func (s *memStore) RecommendedVenues(ctx context.Context) []*Venue {
	return append([]*Venue{}, s.ExploreResult(ctx).Recommended()...)
}

func (s *memStore) FindByID(ctx context.Context, id string) (*Venue, bool) {
	for _, v := range s.RecommendedVenues(ctx) {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range s.SearchResults(ctx) {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

type fakeWidgets struct {
	mu      sync.Mutex
	bounds  BoundingBox
	created []*fakeWidget
}

func (f *fakeWidgets) NewWidget(cfg WidgetConfig) (MapWidget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWidget{cfg: cfg, bounds: f.bounds, handlers: make(map[EventKind]func())}
	f.created = append(f.created, w)
	return w, nil
}

func (f *fakeWidgets) widgets() []*fakeWidget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.created)
}

type fakeWidget struct {
	mu       sync.Mutex
	cfg      WidgetConfig
	layer    *TileLayer
	bounds   BoundingBox
	handlers map[EventKind]func()
	markers  []Marker
	removed  bool
}

func (w *fakeWidget) AddTileLayer(l TileLayer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.layer = &l
}

func (w *fakeWidget) On(kind EventKind, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[kind] = fn
}

func (w *fakeWidget) Bounds() BoundingBox {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

func (w *fakeWidget) ReplaceMarkers(m []Marker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.markers = slices.Clone(m)
}

func (w *fakeWidget) Remove() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removed = true
	w.markers = nil
}

func (w *fakeWidget) fire(kind EventKind) {
	w.mu.Lock()
	fn := w.handlers[kind]
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (w *fakeWidget) isRemoved() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removed
}

func cafe(id, name string, lat, lng float64) *Venue {
	return &Venue{
		ID:   id,
		Name: name,
		Categories: []Category{{
			ID:      "4bf58dd8d48988d1e0931735",
			Name:    "Coffee Shop",
			Icon:    Icon{Prefix: "https://ss3.4sqi.net/img/categories_v2/food/coffeeshop_", Suffix: ".png"},
			Primary: true,
		}},
		Location:         Coordinate{Lat: lat, Lng: lng},
		FormattedAddress: []string{"1 Main St", "New York, NY 10001"},
	}
}

func testMapOptions() *MapOptions {
	return &MapOptions{
		Tiles: TileLayer{
			URL:         "https://api.tiles.mapbox.com/v4/{id}/{z}/{x}/{y}.png?access_token={accessToken}",
			ID:          "mapbox.streets",
			AccessToken: "tok",
			MaxZoom:     18,
		},
		Zoom:          14,
		DefaultCenter: Coordinate{Lat: 40.7128, Lng: -74.006},
		DefaultIcon:   "images/default.png",
		ShadowIcon:    "images/icon-bg.svg",
		DetailURL:     "venue.html",
	}
}

// eventually 轮询直到 cond 成立或超时。
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
