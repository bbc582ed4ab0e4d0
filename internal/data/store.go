package data

import (
	"context"
	"slices"

	"venues-go/internal/biz"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	keyExplore  = "venues:explore"
	keySearch   = "venues:search"
	keySelected = "venues:selected"
	keyLocation = "session:location"
)

type selection struct {
	venue *biz.Venue
	tips  []*biz.Tip
}

// NewVenueStore 会话缓存，每个字段一个键，整体替换保证单字段原子性。
func NewVenueStore(d *Data, logger log.Logger) biz.VenueStore {
	return &venueStore{cache: d.Cache(), log: log.NewHelper(log.With(logger, "module", "data/store"))}
}

type venueStore struct {
	cache cache.CacheInterface[any]
	log   *log.Helper
}

func (s *venueStore) set(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.WithContext(ctx).Errorf("set %s: %v", key, err)
	}
}

func (s *venueStore) del(ctx context.Context, key string) {
	// 键不存在不算错误
	_ = s.cache.Delete(ctx, key)
}

func (s *venueStore) SetExploreResult(ctx context.Context, r *biz.ExploreResult) {
	if r == nil {
		s.del(ctx, keyExplore)
		return
	}
	s.set(ctx, keyExplore, r)
}

func (s *venueStore) SetSearchResults(ctx context.Context, venues []*biz.Venue) {
	s.set(ctx, keySearch, slices.Clone(venues))
}

func (s *venueStore) SetSelected(ctx context.Context, venue *biz.Venue, tips []*biz.Tip) {
	s.set(ctx, keySelected, selection{venue: venue, tips: slices.Clone(tips)})
}

func (s *venueStore) SetLocation(ctx context.Context, c biz.Coordinate) {
	s.set(ctx, keyLocation, c)
}

func (s *venueStore) ClearMapState(ctx context.Context) {
	s.del(ctx, keySearch)
}

func (s *venueStore) ClearVenueState(ctx context.Context) {
	s.del(ctx, keySelected)
}

func (s *venueStore) ExploreResult(ctx context.Context) *biz.ExploreResult {
	v, err := s.cache.Get(ctx, keyExplore)
	if err != nil {
		return nil
	}
	r, _ := v.(*biz.ExploreResult)
	return r
}

func (s *venueStore) SearchResults(ctx context.Context) []*biz.Venue {
	v, err := s.cache.Get(ctx, keySearch)
	if err != nil {
		return []*biz.Venue{}
	}
	venues, _ := v.([]*biz.Venue)
	return slices.Clone(venues)
}

func (s *venueStore) Selected(ctx context.Context) (*biz.Venue, []*biz.Tip) {
	v, err := s.cache.Get(ctx, keySelected)
	if err != nil {
		return nil, []*biz.Tip{}
	}
	sel, _ := v.(selection)
	return sel.venue, slices.Clone(sel.tips)
}

func (s *venueStore) Location(ctx context.Context) (biz.Coordinate, bool) {
	v, err := s.cache.Get(ctx, keyLocation)
	if err != nil {
		return biz.Coordinate{}, false
	}
	c, ok := v.(biz.Coordinate)
	return c, ok
}

func (s *venueStore) RecommendedVenues(ctx context.Context) []*biz.Venue {
	venues := s.ExploreResult(ctx).Recommended()
	if venues == nil {
		return []*biz.Venue{}
	}
	return slices.Clone(venues)
}

func (s *venueStore) FindByID(ctx context.Context, id string) (*biz.Venue, bool) {
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
