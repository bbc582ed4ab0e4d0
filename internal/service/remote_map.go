package service

import (
	"math"
	"sync"

	"venues-go/internal/biz"
)

// 未收到浏览器上报视窗前，按该像素尺寸估算初始视窗
const (
	nominalWidth   = 1024
	nominalHeight  = 768
	maxMercatorLat = 85.05112878
)

// WidgetView 浏览器端构造地图所需的数据。
type WidgetView struct {
	Center  biz.Coordinate  `json:"center"`
	Zoom    int             `json:"zoom"`
	Tiles   string          `json:"tiles,omitempty"`
	Layer   *biz.TileLayer  `json:"layer,omitempty"`
	Bounds  biz.BoundingBox `json:"bounds"`
	Markers []biz.Marker    `json:"markers"`
}

// RemoteMap 浏览器中的地图组件在服务端的代理：浏览器上报视窗与弹窗事件，拉取标记。
type RemoteMap struct {
	mu       sync.Mutex
	reported *biz.BoundingBox
	current  *remoteWidget
}

func NewRemoteMap() *RemoteMap {
	return &RemoteMap{}
}

// NewWidget 实现 biz.MapWidgetFactory。
func (m *RemoteMap) NewWidget(cfg biz.WidgetConfig) (biz.MapWidget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &remoteWidget{
		owner:    m,
		center:   cfg.Center,
		zoom:     cfg.Zoom,
		bounds:   viewportAround(cfg.Center, cfg.Zoom),
		handlers: make(map[biz.EventKind]func()),
	}
	if m.reported != nil {
		w.bounds = *m.reported
	}
	m.current = w
	return w, nil
}

// Report 记录浏览器上报的视窗。
func (m *RemoteMap) Report(box biz.BoundingBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reported = &box
	if m.current != nil {
		m.current.bounds = box
	}
}

// Fire 触发当前组件上注册的通知，没有活动组件时返回 false。
func (m *RemoteMap) Fire(kind biz.EventKind) bool {
	m.mu.Lock()
	w := m.current
	var fn func()
	if w != nil {
		fn = w.handlers[kind]
	}
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// View 当前组件状态。
func (m *RemoteMap) View() (WidgetView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.current
	if w == nil {
		return WidgetView{}, false
	}
	v := WidgetView{
		Center:  w.center,
		Zoom:    w.zoom,
		Bounds:  w.bounds,
		Markers: append([]biz.Marker(nil), w.markers...),
	}
	if w.layer != nil {
		layer := *w.layer
		v.Layer = &layer
		v.Tiles = layer.Template()
	}
	return v, true
}

type remoteWidget struct {
	owner    *RemoteMap
	center   biz.Coordinate
	zoom     int
	bounds   biz.BoundingBox
	layer    *biz.TileLayer
	markers  []biz.Marker
	handlers map[biz.EventKind]func()
}

func (w *remoteWidget) AddTileLayer(layer biz.TileLayer) {
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	w.layer = &layer
}

func (w *remoteWidget) On(kind biz.EventKind, fn func()) {
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	w.handlers[kind] = fn
}

func (w *remoteWidget) Bounds() biz.BoundingBox {
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	return w.bounds
}

func (w *remoteWidget) ReplaceMarkers(markers []biz.Marker) {
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	w.markers = append([]biz.Marker(nil), markers...)
}

func (w *remoteWidget) Remove() {
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	w.markers = nil
	w.handlers = make(map[biz.EventKind]func())
	if w.owner.current == w {
		w.owner.current = nil
	}
}

// viewportAround 以 Web Mercator 估算 center 在 zoom 级别下的视窗。
func viewportAround(c biz.Coordinate, zoom int) biz.BoundingBox {
	scale := 256 * math.Exp2(float64(zoom))
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, c.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x := (c.Lng + 180) / 360 * scale
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	unproject := func(px, py float64) biz.Coordinate {
		lng := px/scale*360 - 180
		n := math.Pi - 2*math.Pi*py/scale
		return biz.Coordinate{
			Lat: math.Max(-maxMercatorLat, math.Min(maxMercatorLat, 180/math.Pi*math.Atan(math.Sinh(n)))),
			Lng: math.Max(-180, math.Min(180, lng)),
		}
	}
	return biz.BoundingBox{
		SouthWest: unproject(x-nominalWidth/2, y+nominalHeight/2),
		NorthEast: unproject(x+nominalWidth/2, y-nominalHeight/2),
	}
}
