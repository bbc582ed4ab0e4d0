package biz

import (
	"html"
	"net/url"
	"strings"

	"venues-go/internal/conf"
)

const (
	markerIconSize  = 32
	popupMaxWidth   = 200
	defaultMapZoom  = 14
	detailLinkLabel = "View Detail »"
)

// TileLayer 底图瓦片层，URL 中的 {z}/{x}/{y} 由地图组件填充。
type TileLayer struct {
	URL         string `json:"url"`
	ID          string `json:"id"`
	AccessToken string `json:"accessToken"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

// Template 替换 {id} 与 {accessToken}，保留 {z}/{x}/{y}。
func (t TileLayer) Template() string {
	return strings.NewReplacer("{id}", t.ID, "{accessToken}", url.QueryEscape(t.AccessToken)).Replace(t.URL)
}

// MapOptions 地图组件与标记的固定配置。
type MapOptions struct {
	Tiles         TileLayer
	Zoom          int
	DefaultCenter Coordinate
	DefaultIcon   string
	ShadowIcon    string
	DetailURL     string
}

func NewMapOptions(m *conf.Map, s *conf.Session) *MapOptions {
	o := &MapOptions{
		Tiles: TileLayer{
			URL:         m.TileURL,
			ID:          m.TileID,
			AccessToken: m.AccessToken,
			Attribution: m.Attribution,
			MaxZoom:     m.MaxZoom,
		},
		Zoom:        m.Zoom,
		DefaultIcon: m.DefaultIcon,
		ShadowIcon:  m.ShadowIcon,
		DetailURL:   m.DetailURL,
	}
	if o.Zoom == 0 {
		o.Zoom = defaultMapZoom
	}
	if s != nil {
		if c, err := NewCoordinate(s.DefaultLat, s.DefaultLng); err == nil {
			o.DefaultCenter = c
		}
	}
	return o
}

func (o *MapOptions) Links() LinkBuilder {
	return LinkBuilder{base: o.DetailURL}
}

// LinkBuilder 生成详情页链接。
type LinkBuilder struct {
	base string
}

func (b LinkBuilder) Detail(id string) string {
	base := b.base
	if base == "" {
		base = "venue.html"
	}
	return base + "?id=" + url.QueryEscape(id)
}

// MarkerIcon 标记图标及阴影。
type MarkerIcon struct {
	URL        string `json:"iconUrl"`
	Size       [2]int `json:"iconSize"`
	ShadowURL  string `json:"shadowUrl"`
	ShadowSize [2]int `json:"shadowSize"`
}

// Popup 标记弹窗。
type Popup struct {
	HTML     string `json:"html"`
	MaxWidth int    `json:"maxWidth"`
}

// Marker 地图上的一个场所标记。
type Marker struct {
	VenueID  string     `json:"venueId"`
	Position Coordinate `json:"position"`
	Icon     MarkerIcon `json:"icon"`
	Popup    Popup      `json:"popup"`
}

// NewMarker 由场所确定性地生成标记；没有 primary 分类时使用默认图标。
func NewMarker(v *Venue, o *MapOptions) Marker {
	icon, ok := VenueIcon(v, markerIconSize, false)
	if !ok {
		icon = o.DefaultIcon
	}
	return Marker{
		VenueID:  v.ID,
		Position: v.Location,
		Icon: MarkerIcon{
			URL:        icon,
			Size:       [2]int{markerIconSize, markerIconSize},
			ShadowURL:  o.ShadowIcon,
			ShadowSize: [2]int{markerIconSize, markerIconSize},
		},
		Popup: Popup{
			HTML: "<h3>" + html.EscapeString(v.Name) + "</h3>" +
				`<a href="` + html.EscapeString(o.Links().Detail(v.ID)) + `">` + detailLinkLabel + "</a>",
			MaxWidth: popupMaxWidth,
		},
	}
}

// BuildMarkers 每个场所一个标记，顺序与输入一致。
func BuildMarkers(venues []*Venue, o *MapOptions) []Marker {
	markers := make([]Marker, 0, len(venues))
	for _, v := range venues {
		markers = append(markers, NewMarker(v, o))
	}
	return markers
}

// WidgetConfig 构造地图组件所需参数。
type WidgetConfig struct {
	Center Coordinate
	Zoom   int
}

// MapWidget 外部地图组件。
type MapWidget interface {
	AddTileLayer(layer TileLayer)
	// On 注册 moveend / popupopen / popupclose 通知。
	On(kind EventKind, fn func())
	Bounds() BoundingBox
	// ReplaceMarkers 移除现有标记层并添加新的标记。
	ReplaceMarkers(markers []Marker)
	Remove()
}

// MapWidgetFactory 创建地图组件。
type MapWidgetFactory interface {
	NewWidget(cfg WidgetConfig) (MapWidget, error)
}
