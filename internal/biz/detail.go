package biz

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// DetailTipLimit 详情页只展示最受欢迎的一条点评。
const DetailTipLimit = 1

// CategoryView 详情页分类。
type CategoryView struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// TipView 详情页点评。
type TipView struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

// DetailView 详情页展示数据。
type DetailView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	MapLink    string         `json:"mapLink"`
	Categories []CategoryView `json:"categories"`
	Address    string         `json:"address"`
	Tips       []TipView      `json:"tips"`
	TipsHidden bool           `json:"tipsHidden"`
}

// DetailUsecase 组装单个场所的详情。
type DetailUsecase struct {
	venues VenueRepo
	store  VenueStore
	log    *log.Helper
}

func NewDetailUsecase(venues VenueRepo, store VenueStore, logger log.Logger) *DetailUsecase {
	return &DetailUsecase{venues: venues, store: store, log: log.NewHelper(logger)}
}

// Assemble 从缓存解析场所（两个缓存都没有时返回 ErrVenueNotFound），
// 再取一条热门点评；点评获取失败时以空列表继续。
func (uc *DetailUsecase) Assemble(ctx context.Context, venueID string) (*DetailView, error) {
	venue, ok := uc.store.FindByID(ctx, venueID)
	if !ok {
		return nil, ErrVenueNotFound.WithMetadata(map[string]string{"id": venueID})
	}

	tips, err := uc.venues.Tips(ctx, TipsQuery{VenueID: venueID, Limit: DetailTipLimit, Sort: SortPopular})
	if err != nil {
		uc.log.WithContext(ctx).Warnf("tips for %s: %v", venueID, err)
		tips = nil
	}
	uc.store.SetSelected(ctx, venue, tips)
	return NewDetailView(venue, tips), nil
}

// Leave 对应详情页即将隐藏，清理选中场所。
func (uc *DetailUsecase) Leave(ctx context.Context) {
	uc.store.ClearVenueState(ctx)
}

// NewDetailView 纯函数，将场所与点评转换为展示数据。
func NewDetailView(v *Venue, tips []*Tip) *DetailView {
	view := &DetailView{
		ID:         v.ID,
		Name:       v.Name,
		MapLink:    MapLink(v.Location),
		Categories: make([]CategoryView, 0, len(v.Categories)),
		Address:    strings.Join(v.FormattedAddress, ", "),
		Tips:       make([]TipView, 0, len(tips)),
	}
	for _, c := range v.Categories {
		view.Categories = append(view.Categories, CategoryView{
			Name: c.Name,
			Icon: CategoryIcon(c, DefaultIconSize, false),
		})
	}
	for _, t := range tips {
		view.Tips = append(view.Tips, TipView{
			Text:   t.Text,
			Author: t.Author.FullName(),
			Date:   FormatTipDate(t.CreatedAt),
		})
	}
	view.TipsHidden = len(view.Tips) == 0
	return view
}
