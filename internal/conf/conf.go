package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap 为配置文件根结构。
type Bootstrap struct {
	Server      *Server      `json:"server"`
	Foursquare  *Foursquare  `json:"foursquare"`
	Geolocation *Geolocation `json:"geolocation"`
	Map         *Map         `json:"map"`
	Session     *Session     `json:"session"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

// Foursquare 场所数据服务（v2 接口）。
type Foursquare struct {
	Endpoint      string    `json:"endpoint"`
	ClientID      string    `json:"client_id"`
	ClientSecret  string    `json:"client_secret"`
	Version       string    `json:"version"`
	Language      string    `json:"language"`
	Timeout       *Duration `json:"timeout"`
	Rate          float64   `json:"rate"`           // 每秒请求数上限，0 表示不限流
	SlowThreshold *Duration `json:"slow_threshold"` // 慢请求阈值
}

// Geolocation IP 定位服务。
type Geolocation struct {
	Endpoint string    `json:"endpoint"`
	APIKey   string    `json:"api_key"`
	Timeout  *Duration `json:"timeout"`
}

// Map 地图底图与标记样式。
type Map struct {
	TileURL     string `json:"tile_url"`
	TileID      string `json:"tile_id"`
	AccessToken string `json:"access_token"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"max_zoom"`
	Zoom        int    `json:"zoom"`
	DefaultIcon string `json:"default_icon"`
	ShadowIcon  string `json:"shadow_icon"`
	DetailURL   string `json:"detail_url"`
}

// Session 会话默认值（定位失败时使用）。
type Session struct {
	DefaultLat float64 `json:"default_lat"`
	DefaultLng float64 `json:"default_lng"`
}

// Duration 以 "5s"、"300ms" 形式书写的时长。
type Duration struct {
	time.Duration
}

func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

// AsDuration 对 nil 返回 0。
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		d.Duration = time.Duration(t) * time.Second
		return nil
	case string:
		dur, err := time.ParseDuration(t)
		if err != nil {
			return err
		}
		d.Duration = dur
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
