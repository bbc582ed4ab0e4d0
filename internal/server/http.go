package server

import (
	"context"

	"venues-go/internal/conf"
	"venues-go/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, venues *service.VenueService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.ResponseEncoder(func(w http.ResponseWriter, r *http.Request, v any) error {
			if r != nil && r.URL.Query().Get("format") == "geojson" {
				return encodeGeoJSON(w, r, v)
			}
			return http.DefaultResponseEncoder(w, r, v)
		}),
		http.RequestDecoder(http.DefaultRequestDecoder),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != nil {
		opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := http.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	registerRoutes(srv, venues)
	return srv
}

func registerRoutes(srv *http.Server, venues *service.VenueService) {
	r := srv.Route("/")
	r.POST("/session/load", handle("/venues.Venues/Load", venues.Load))
	r.GET("/venues", handle("/venues.Venues/Home", venues.Home))
	r.GET("/venues/{id}", handle("/venues.Venues/Venue", venues.Venue))
	r.POST("/venues/{id}/hide", handle("/venues.Venues/LeaveVenue", venues.LeaveVenue))
	r.GET("/map", handle("/venues.Map/State", venues.MapState))
	r.POST("/map/show", handle("/venues.Map/Show", venues.MapShow))
	r.POST("/map/hide", handle("/venues.Map/Hide", venues.MapHide))
	r.POST("/map/move", handle("/venues.Map/Move", venues.MapMove))
	r.POST("/map/popup/{action}", handle("/venues.Map/Popup", venues.MapPopup))
	r.POST("/map/category", handle("/venues.Map/Category", venues.MapCategory))
}

// handle 设置 operation 并让请求经过 server 中间件链。
func handle(operation string, fn http.HandlerFunc) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, operation)
		h := ctx.Middleware(func(context.Context, interface{}) (interface{}, error) {
			return nil, fn(ctx)
		})
		_, err := h(ctx, nil)
		return err
	}
}
