package conf

import (
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"

	_ "github.com/go-kratos/kratos/v2/encoding/yaml"
)

// Load 读取配置目录或文件，${VAR} 占位符由环境变量解析。
func Load(path string) (*Bootstrap, func(), error) {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
			env.NewSource(),
		),
	)
	if err := c.Load(); err != nil {
		return nil, nil, err
	}
	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		c.Close()
		return nil, nil, err
	}
	bc.applyDefaults()
	return &bc, func() { c.Close() }, nil
}

func (bc *Bootstrap) applyDefaults() {
	if bc.Server == nil {
		bc.Server = &Server{}
	}
	if bc.Server.Http == nil {
		bc.Server.Http = &Server_HTTP{Addr: "0.0.0.0:8000"}
	}
	if bc.Foursquare == nil {
		bc.Foursquare = &Foursquare{}
	}
	if bc.Foursquare.Endpoint == "" {
		bc.Foursquare.Endpoint = "https://api.foursquare.com/v2"
	}
	if bc.Foursquare.Version == "" {
		bc.Foursquare.Version = "20191212"
	}
	if bc.Foursquare.Language == "" {
		bc.Foursquare.Language = "en"
	}
	if bc.Geolocation == nil {
		bc.Geolocation = &Geolocation{}
	}
	if bc.Geolocation.Endpoint == "" {
		bc.Geolocation.Endpoint = "https://api.ipgeolocation.io/ipgeo"
	}
	if bc.Map == nil {
		bc.Map = &Map{}
	}
	if bc.Map.Zoom == 0 {
		bc.Map.Zoom = 14
	}
	if bc.Map.MaxZoom == 0 {
		bc.Map.MaxZoom = 18
	}
	if bc.Map.ShadowIcon == "" {
		bc.Map.ShadowIcon = "images/icon-bg.svg"
	}
	if bc.Map.DetailURL == "" {
		bc.Map.DetailURL = "venue.html"
	}
	if bc.Session == nil {
		bc.Session = &Session{}
	}
}
