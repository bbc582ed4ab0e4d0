package biz

import "context"

// VenueStore 会话级场所缓存（VenueDataStore）。
//
// 各字段按写入方划分：首页路径写 explore 结果，地图路径写 search 结果，
// 详情路径写当前选中场所与其 tips。每个字段整体替换，不做合并，也没有过期时间；
// 只由导航生命周期事件显式清理。读取返回快照，调用方不得修改。
type VenueStore interface {
	SetExploreResult(ctx context.Context, r *ExploreResult)
	SetSearchResults(ctx context.Context, venues []*Venue)
	SetSelected(ctx context.Context, venue *Venue, tips []*Tip)
	SetLocation(ctx context.Context, c Coordinate)
	ClearMapState(ctx context.Context)
	ClearVenueState(ctx context.Context)

	ExploreResult(ctx context.Context) *ExploreResult
	SearchResults(ctx context.Context) []*Venue
	Selected(ctx context.Context) (*Venue, []*Tip)
	Location(ctx context.Context) (Coordinate, bool)

	// RecommendedVenues 返回 explore 结果的 recommended 分组，缺失时为空。
	RecommendedVenues(ctx context.Context) []*Venue
	// FindByID 先查 recommended，再查 search 结果，先命中者优先。
	FindByID(ctx context.Context, id string) (*Venue, bool)
}
