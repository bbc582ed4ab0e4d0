package biz

import (
	"context"
	"sync"

	"venues-go/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// MapState 地图控制器状态。
type MapState int

const (
	MapUninitialized MapState = iota
	MapActive
	MapDestroyed
)

func (s MapState) String() string {
	switch s {
	case MapUninitialized:
		return "uninitialized"
	case MapActive:
		return "active"
	case MapDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// EventKind 驱动地图状态机的事件。
type EventKind int

const (
	EventMapShown EventKind = iota + 1
	EventMapHidden
	EventMoveEnd
	EventPopupOpen
	EventPopupClose
	EventCategoryChanged
)

func (k EventKind) String() string {
	switch k {
	case EventMapShown:
		return "map_shown"
	case EventMapHidden:
		return "map_hidden"
	case EventMoveEnd:
		return "moveend"
	case EventPopupOpen:
		return "popupopen"
	case EventPopupClose:
		return "popupclose"
	case EventCategoryChanged:
		return "category_changed"
	default:
		return "unknown"
	}
}

// Event 地图事件，CategoryID 仅用于 EventCategoryChanged。
type Event struct {
	Kind       EventKind
	CategoryID string
}

// mapTransitions 未列出的 (状态, 事件) 组合被忽略。
var mapTransitions = map[MapState]map[EventKind]MapState{
	MapUninitialized: {
		EventMapShown:        MapActive,
		EventCategoryChanged: MapUninitialized,
	},
	MapActive: {
		EventMapHidden:       MapDestroyed,
		EventMoveEnd:         MapActive,
		EventPopupOpen:       MapActive,
		EventPopupClose:      MapActive,
		EventCategoryChanged: MapActive,
	},
	MapDestroyed: {
		EventMapShown:        MapActive,
		EventCategoryChanged: MapDestroyed,
	},
}

// MapSnapshot 控制器状态快照。
type MapSnapshot struct {
	State      MapState `json:"-"`
	StateName  string   `json:"state"`
	Session    string   `json:"session,omitempty"`
	PopupOpen  bool     `json:"popupOpen"`
	CategoryID string   `json:"categoryId,omitempty"`
	Seq        uint64   `json:"seq"`
	Markers    []Marker `json:"markers"`
}

type searchResult struct {
	seq    uint64
	venues []*Venue
	err    error
}

type message struct {
	event  *Event
	result *searchResult
	reply  chan MapSnapshot
}

// queue 无界 FIFO，入队永不阻塞（地图组件回调可能在事件循环内同步触发）。
type queue struct {
	mu     sync.Mutex
	items  []message
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

func (q *queue) push(m message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []message {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// MapController 管理地图组件生命周期，并在视窗变化时驱动 search。
//
// 所有状态只在事件循环 goroutine 中读写；search 在独立 goroutine 中执行，
// 结果带着发起时的序号回到队列。只有序号等于最新发起序号的结果会被应用（后发者胜）。
// 旧请求不会被中止，只在到达时丢弃。
type MapController struct {
	repo    VenueRepo
	store   VenueStore
	widgets MapWidgetFactory
	opts    *MapOptions
	log     *log.Helper
	queue   *queue

	stopOnce sync.Once
	done     chan struct{}

	// 以下字段仅由事件循环访问
	state     MapState
	widget    MapWidget
	markers   []Marker
	popupOpen bool
	category  string
	seq       uint64
	session   string
}

func NewMapController(repo VenueRepo, store VenueStore, widgets MapWidgetFactory, opts *MapOptions, logger log.Logger) *MapController {
	return &MapController{
		repo:    repo,
		store:   store,
		widgets: widgets,
		opts:    opts,
		log:     log.NewHelper(log.With(logger, "module", "biz/map")),
		queue:   newQueue(),
		done:    make(chan struct{}),
		state:   MapUninitialized,
	}
}

// Dispatch 投递事件，不阻塞；事件循环结束后的事件被丢弃。
func (c *MapController) Dispatch(ev Event) {
	select {
	case <-c.done:
		return
	default:
	}
	c.queue.push(message{event: &ev})
}

func (c *MapController) Show()                    { c.Dispatch(Event{Kind: EventMapShown}) }
func (c *MapController) Hide()                    { c.Dispatch(Event{Kind: EventMapHidden}) }
func (c *MapController) MoveEnd()                 { c.Dispatch(Event{Kind: EventMoveEnd}) }
func (c *MapController) PopupOpened()             { c.Dispatch(Event{Kind: EventPopupOpen}) }
func (c *MapController) PopupClosed()             { c.Dispatch(Event{Kind: EventPopupClose}) }
func (c *MapController) SelectCategory(id string) { c.Dispatch(Event{Kind: EventCategoryChanged, CategoryID: id}) }

// Snapshot 经事件循环取得一致的状态快照。
func (c *MapController) Snapshot(ctx context.Context) (MapSnapshot, error) {
	reply := make(chan MapSnapshot, 1)
	c.queue.push(message{reply: reply})
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return MapSnapshot{}, ctx.Err()
	case <-c.done:
		return MapSnapshot{}, ErrMapNotActive
	}
}

// Start 运行事件循环直到 ctx 取消或 Stop 被调用（实现 transport.Server）。
func (c *MapController) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.stopOnce.Do(func() { close(c.done) })
	c.log.Info("map controller started")
	for {
		select {
		case <-ctx.Done():
			c.teardown(context.Background())
			return nil
		case <-c.done:
			c.teardown(context.Background())
			return nil
		case <-c.queue.signal:
			for _, m := range c.queue.drain() {
				c.handle(ctx, m)
			}
		}
	}
}

// Stop 结束事件循环。
func (c *MapController) Stop(context.Context) error {
	c.stopOnce.Do(func() { close(c.done) })
	return nil
}

func (c *MapController) handle(ctx context.Context, m message) {
	switch {
	case m.event != nil:
		c.handleEvent(ctx, *m.event)
	case m.result != nil:
		c.handleResult(ctx, m.result)
	case m.reply != nil:
		m.reply <- c.snapshot()
	}
}

func (c *MapController) handleEvent(ctx context.Context, ev Event) {
	next, ok := mapTransitions[c.state][ev.Kind]
	if !ok {
		c.log.Debugf("ignore %s in state %s", ev.Kind, c.state)
		return
	}
	from := c.state
	switch ev.Kind {
	case EventMapShown:
		if err := c.activate(ctx); err != nil {
			c.log.Errorf("create map widget: %v", err)
			return
		}
	case EventMapHidden:
		c.teardown(ctx)
	case EventPopupOpen:
		c.popupOpen = true
	case EventPopupClose:
		c.popupOpen = false
	case EventCategoryChanged:
		c.category = ev.CategoryID
		if c.state == MapActive {
			c.viewportChanged(ctx)
		}
	case EventMoveEnd:
		c.viewportChanged(ctx)
	}
	c.state = next
	if from != next {
		metrics.MapTransitions.WithLabelValues(from.String(), next.String()).Inc()
		c.log.Infof("map %s -> %s (session=%s)", from, next, c.session)
	}
}

// activate 构造地图组件、添加底图、注册三个触发器，并立即按当前视窗搜索一次。
func (c *MapController) activate(ctx context.Context) error {
	center := c.opts.DefaultCenter
	if loc, ok := c.store.Location(ctx); ok {
		center = loc
	}
	w, err := c.widgets.NewWidget(WidgetConfig{Center: center, Zoom: c.opts.Zoom})
	if err != nil {
		return err
	}
	w.AddTileLayer(c.opts.Tiles)
	w.On(EventMoveEnd, c.MoveEnd)
	w.On(EventPopupOpen, c.PopupOpened)
	w.On(EventPopupClose, c.PopupClosed)

	c.widget = w
	c.markers = nil
	c.popupOpen = false
	c.session = uuid.NewString()
	c.state = MapActive
	c.search(ctx)
	return nil
}

// teardown 销毁组件，清空标记、弹窗标记与地图缓存。
func (c *MapController) teardown(ctx context.Context) {
	if c.widget != nil {
		c.widget.Remove()
	}
	c.widget = nil
	c.markers = nil
	c.popupOpen = false
	c.store.ClearMapState(ctx)
}

func (c *MapController) viewportChanged(ctx context.Context) {
	if c.popupOpen {
		metrics.MapSearches.WithLabelValues("suppressed").Inc()
		c.log.Debugf("viewport change suppressed while popup is open (session=%s)", c.session)
		return
	}
	c.search(ctx)
}

func (c *MapController) search(ctx context.Context) {
	if c.widget == nil {
		return
	}
	box := c.widget.Bounds()
	category := c.category
	c.seq++
	seq := c.seq
	go func() {
		venues, err := c.repo.Search(ctx, category, box)
		c.queue.push(message{result: &searchResult{seq: seq, venues: venues, err: err}})
	}()
}

func (c *MapController) handleResult(ctx context.Context, r *searchResult) {
	if r.seq != c.seq {
		metrics.MapSearches.WithLabelValues("stale").Inc()
		c.log.Debugf("discard stale search #%d, latest #%d", r.seq, c.seq)
		return
	}
	if c.state != MapActive || c.widget == nil {
		metrics.MapSearches.WithLabelValues("inactive").Inc()
		return
	}
	if r.err != nil {
		// 失败时保留上一次的标记
		metrics.MapSearches.WithLabelValues("failed").Inc()
		c.log.Errorf("search #%d: %v", r.seq, r.err)
		return
	}
	c.store.SetSearchResults(ctx, r.venues)
	c.rebuildMarkers(ctx)
	metrics.MapSearches.WithLabelValues("applied").Inc()
}

func (c *MapController) rebuildMarkers(ctx context.Context) {
	c.markers = BuildMarkers(c.store.SearchResults(ctx), c.opts)
	c.widget.ReplaceMarkers(c.markers)
}

func (c *MapController) snapshot() MapSnapshot {
	markers := make([]Marker, len(c.markers))
	copy(markers, c.markers)
	return MapSnapshot{
		State:      c.state,
		StateName:  c.state.String(),
		Session:    c.session,
		PopupOpen:  c.popupOpen,
		CategoryID: c.category,
		Seq:        c.seq,
		Markers:    markers,
	}
}
