package service

import (
	nethttp "net/http"
	"strings"
	"sync/atomic"

	"venues-go/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// VenueService 首页列表、地图会话与详情页的 HTTP 适配层。
type VenueService struct {
	log     *log.Helper
	home    *biz.HomeUsecase
	detail  *biz.DetailUsecase
	maps    *biz.MapController
	remote  *RemoteMap
	loading *loadingIndicator
}

func NewVenueService(logger log.Logger, home *biz.HomeUsecase, detail *biz.DetailUsecase, maps *biz.MapController, remote *RemoteMap) *VenueService {
	return &VenueService{
		log:     log.NewHelper(logger),
		home:    home,
		detail:  detail,
		maps:    maps,
		remote:  remote,
		loading: &loadingIndicator{},
	}
}

type loadingIndicator struct {
	visible atomic.Bool
}

func (l *loadingIndicator) Show()         { l.visible.Store(true) }
func (l *loadingIndicator) Hide()         { l.visible.Store(false) }
func (l *loadingIndicator) Visible() bool { return l.visible.Load() }

type coordinateJSON struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (c *coordinateJSON) parse() (biz.Coordinate, error) {
	if c == nil || c.Lat == nil || c.Lng == nil {
		return biz.Coordinate{}, errors.BadRequest("BAD_REQUEST", "lat and lng are required")
	}
	return biz.NewCoordinate(*c.Lat, *c.Lng)
}

// ViewportRequest 浏览器上报的视窗。
type ViewportRequest struct {
	SW *coordinateJSON `json:"sw"`
	NE *coordinateJSON `json:"ne"`
}

func (r *ViewportRequest) empty() bool {
	return r.SW == nil && r.NE == nil
}

func (r *ViewportRequest) box() (biz.BoundingBox, error) {
	sw, err := r.SW.parse()
	if err != nil {
		return biz.BoundingBox{}, err
	}
	ne, err := r.NE.parse()
	if err != nil {
		return biz.BoundingBox{}, err
	}
	return biz.BoundingBox{SouthWest: sw, NorthEast: ne}, nil
}

type CategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

type HomeReply struct {
	Loading  bool           `json:"loading"`
	Location biz.Coordinate `json:"location"`
	Venues   []biz.ListItem `json:"venues"`
}

type MapReply struct {
	biz.MapSnapshot
	Widget *WidgetView `json:"widget,omitempty"`
}

// Load 首页初始加载：定位 + explore。
func (s *VenueService) Load(ctx http.Context) error {
	if err := s.home.Load(ctx, s.loading); err != nil {
		return err
	}
	return s.Home(ctx)
}

// Home 首页列表。
func (s *VenueService) Home(ctx http.Context) error {
	return ctx.Result(200, &HomeReply{
		Loading:  s.loading.Visible(),
		Location: s.home.Location(ctx),
		Venues:   s.home.List(ctx),
	})
}

// Venue 详情页即将显示；找不到场所时重定向到首页。
func (s *VenueService) Venue(ctx http.Context) error {
	id := strings.TrimSpace(ctx.Vars().Get("id"))
	if id == "" {
		id = strings.TrimSpace(ctx.Query().Get("id"))
	}
	view, err := s.detail.Assemble(ctx, id)
	if err != nil {
		if errors.Is(err, biz.ErrVenueNotFound) {
			s.log.WithContext(ctx).Warnf("venue %s not cached, redirect home", id)
			nethttp.Redirect(ctx.Response(), ctx.Request(), "/", nethttp.StatusSeeOther)
			return nil
		}
		return err
	}
	return ctx.Result(200, view)
}

// LeaveVenue 详情页即将隐藏。
func (s *VenueService) LeaveVenue(ctx http.Context) error {
	s.detail.Leave(ctx)
	ctx.Response().WriteHeader(nethttp.StatusNoContent)
	return nil
}

// MapState 地图状态、标记与组件参数。
func (s *VenueService) MapState(ctx http.Context) error {
	snap, err := s.maps.Snapshot(ctx)
	if err != nil {
		return err
	}
	reply := &MapReply{MapSnapshot: snap}
	if v, ok := s.remote.View(); ok {
		reply.Widget = &v
	}
	return ctx.Result(200, reply)
}

// MapShow 地图页显示，可附带浏览器当前视窗；无 body 时不解码。
func (s *VenueService) MapShow(ctx http.Context) error {
	var req ViewportRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return err
		}
	}
	if !req.empty() {
		box, err := req.box()
		if err != nil {
			return err
		}
		s.remote.Report(box)
	}
	s.maps.Show()
	return accepted(ctx)
}

// MapHide 地图页即将隐藏。
func (s *VenueService) MapHide(ctx http.Context) error {
	s.maps.Hide()
	return accepted(ctx)
}

// MapMove 移动或缩放结束。
func (s *VenueService) MapMove(ctx http.Context) error {
	var req ViewportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	box, err := req.box()
	if err != nil {
		return err
	}
	s.remote.Report(box)
	return s.fire(ctx, biz.EventMoveEnd)
}

// MapPopup 弹窗打开/关闭。
func (s *VenueService) MapPopup(ctx http.Context) error {
	switch ctx.Vars().Get("action") {
	case "open":
		return s.fire(ctx, biz.EventPopupOpen)
	case "close":
		return s.fire(ctx, biz.EventPopupClose)
	default:
		return errors.BadRequest("BAD_REQUEST", "action must be open or close")
	}
}

// MapCategory 切换分类过滤，空字符串表示不过滤。
func (s *VenueService) MapCategory(ctx http.Context) error {
	var req CategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	s.maps.SelectCategory(strings.TrimSpace(req.CategoryID))
	return accepted(ctx)
}

func (s *VenueService) fire(ctx http.Context, kind biz.EventKind) error {
	if !s.remote.Fire(kind) {
		return biz.ErrMapNotActive
	}
	return accepted(ctx)
}

// accepted 事件已入队，结果通过 GET /map 查询。
func accepted(ctx http.Context) error {
	ctx.Response().WriteHeader(nethttp.StatusAccepted)
	return nil
}
