package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// HomeIconSize 首页列表图标尺寸。
const HomeIconSize = 88

// Indicator 加载指示器。Hide 在成功与失败路径上都必须被调用。
type Indicator interface {
	Show()
	Hide()
}

type nopIndicator struct{}

func (nopIndicator) Show() {}
func (nopIndicator) Hide() {}

// NopIndicator 不做任何展示。
var NopIndicator Indicator = nopIndicator{}

// ListItem 首页列表项。
type ListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Categories string `json:"categories"`
	Icon       string `json:"icon,omitempty"`
	Link       string `json:"link"`
}

// HomeUsecase 定位 -> explore -> 写入缓存。
type HomeUsecase struct {
	geo      LocationRepo
	venues   VenueRepo
	store    VenueStore
	fallback Coordinate
	links    LinkBuilder
	log      *log.Helper
}

func NewHomeUsecase(geo LocationRepo, venues VenueRepo, store VenueStore, opts *MapOptions, logger log.Logger) *HomeUsecase {
	return &HomeUsecase{
		geo:      geo,
		venues:   venues,
		store:    store,
		fallback: opts.DefaultCenter,
		links:    opts.Links(),
		log:      log.NewHelper(logger),
	}
}

// Load 执行首页初始加载。定位失败（ErrLookupFailed）时会话保留默认坐标，
// explore 失败（ErrProviderError）时清空首页列表；两种错误都不重试，直接返回给调用方。
func (uc *HomeUsecase) Load(ctx context.Context, ind Indicator) error {
	if ind == nil {
		ind = NopIndicator
	}
	ind.Show()
	defer ind.Hide()

	loc, err := uc.geo.Resolve(ctx)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("resolve location: %v", err)
		if _, ok := uc.store.Location(ctx); !ok {
			uc.store.SetLocation(ctx, uc.fallback)
		}
		return err
	}
	uc.store.SetLocation(ctx, loc)

	res, err := uc.venues.Explore(ctx, loc)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("explore %v,%v: %v", loc.Lat, loc.Lng, err)
		uc.store.SetExploreResult(ctx, nil)
		return err
	}
	uc.store.SetExploreResult(ctx, res)
	uc.log.WithContext(ctx).Infof("explore %v,%v: %d recommended venues", loc.Lat, loc.Lng, len(res.Recommended()))
	return nil
}

// Location 当前会话坐标，未定位时为默认坐标。
func (uc *HomeUsecase) Location(ctx context.Context) Coordinate {
	if c, ok := uc.store.Location(ctx); ok {
		return c
	}
	return uc.fallback
}

// List 首页列表，explore 结果缺失时为空。
func (uc *HomeUsecase) List(ctx context.Context) []ListItem {
	venues := uc.store.RecommendedVenues(ctx)
	items := make([]ListItem, 0, len(venues))
	for _, v := range venues {
		icon, _ := VenueIcon(v, HomeIconSize, false)
		items = append(items, ListItem{
			ID:         v.ID,
			Name:       v.Name,
			Categories: CategoryNames(v),
			Icon:       icon,
			Link:       uc.links.Detail(v.ID),
		})
	}
	return items
}
