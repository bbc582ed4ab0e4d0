package data

import (
	"context"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"venues-go/internal/conf"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/store/go_cache/v4"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
	gocache "github.com/patrickmn/go-cache"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewVenueRepo,
	NewLocationRepo,
	NewVenueStore,
)

// Data 持有外部接口客户端与会话缓存。
type Data struct {
	fsq     *http.Client
	geo     *http.Client
	cache   cache.CacheInterface[any]
	fsqCfg  *conf.Foursquare
	geoCfg  *conf.Geolocation
	fsqPath string
	geoPath string
}

// Cache 返回缓存客户端
func (d *Data) Cache() cache.CacheInterface[any] {
	return d.cache
}

// NewData .
func NewData(fsq *conf.Foursquare, geo *conf.Geolocation, logger log.Logger) (*Data, func(), error) {
	// 会话缓存没有过期时间，也不启动清理协程
	goCache := gocache.New(gocache.NoExpiration, 0)
	store := go_cache.NewGoCache(goCache)

	fsqPath, err := endpointPath(fsq.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	geoPath, err := endpointPath(geo.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	// Foursquare 的错误码在 meta.code 中，由仓库自行判定
	fsqClient, err := newClient(fsq.Endpoint, fsq.Timeout.AsDuration(), logger, ignoreStatus,
		rateLimit(newTokenBucket(fsq.Rate)),
		requestHeader("Accept", "application/json", "Accept-Language", fsq.Language),
		slowCall(fsq.SlowThreshold.AsDuration()),
		instrument(),
	)
	if err != nil {
		return nil, nil, err
	}
	geoClient, err := newClient(geo.Endpoint, geo.Timeout.AsDuration(), logger, http.DefaultErrorDecoder,
		requestHeader("Accept", "application/json"),
		instrument(),
	)
	if err != nil {
		fsqClient.Close()
		return nil, nil, err
	}
	d := &Data{
		fsq:     fsqClient,
		geo:     geoClient,
		cache:   cache.New[any](store),
		fsqCfg:  fsq,
		geoCfg:  geo,
		fsqPath: fsqPath,
		geoPath: geoPath,
	}
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		_ = d.fsq.Close()
		_ = d.geo.Close()
		_ = d.cache.Clear(context.Background())
	}
	return d, cleanup, nil
}

func newClient(endpoint string, timeout time.Duration, logger log.Logger, decoder http.DecodeErrorFunc, mws ...middleware.Middleware) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	chain := append([]middleware.Middleware{
		recovery.Recovery(),
		logging.Client(logger),
	}, mws...)
	return http.NewClient(context.Background(),
		http.WithEndpoint(endpoint),
		http.WithTimeout(timeout),
		http.WithMiddleware(chain...),
		http.WithErrorDecoder(decoder),
	)
}

func ignoreStatus(context.Context, *nethttp.Response) error { return nil }

// endpointPath 客户端只使用 endpoint 的 scheme 与 host，路径前缀由调用方拼接。
func endpointPath(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(u.Path, "/"), nil
}
