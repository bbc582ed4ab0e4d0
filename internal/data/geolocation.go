package data

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"venues-go/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const opGeolocate = "/ipgeo"

// ipgeoResponse 经纬度以数字字符串返回。
type ipgeoResponse struct {
	IP        string          `json:"ip"`
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
}

// NewLocationRepo ipgeolocation 实现。
func NewLocationRepo(d *Data, logger log.Logger) biz.LocationRepo {
	return &locationRepo{data: d, log: log.NewHelper(log.With(logger, "module", "data/geolocation"))}
}

type locationRepo struct {
	data *Data
	log  *log.Helper
}

// Resolve 不做重试，任何失败都返回 ErrLookupFailed。
func (r *locationRepo) Resolve(ctx context.Context) (biz.Coordinate, error) {
	params := url.Values{}
	params.Set("apiKey", r.data.geoCfg.APIKey)
	var out ipgeoResponse
	err := r.data.geo.Invoke(ctx, nethttp.MethodGet, r.data.geoPath+"?"+params.Encode(), nil, &out, http.Operation(opGeolocate))
	if err != nil {
		return biz.Coordinate{}, lookupFailed(fmt.Errorf("geolocation request failed: %w", err))
	}
	lat, err := parseNumeric(out.Latitude)
	if err != nil {
		return biz.Coordinate{}, lookupFailed(fmt.Errorf("latitude: %w", err))
	}
	lng, err := parseNumeric(out.Longitude)
	if err != nil {
		return biz.Coordinate{}, lookupFailed(fmt.Errorf("longitude: %w", err))
	}
	c, err := biz.NewCoordinate(lat, lng)
	if err != nil {
		return biz.Coordinate{}, lookupFailed(err)
	}
	r.log.WithContext(ctx).Debugf("resolved %s to %v,%v", out.IP, c.Lat, c.Lng)
	return c, nil
}

// parseNumeric 接受 "12.34" 或 12.34。
func parseNumeric(raw json.RawMessage) (float64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseFloat(s, 64)
}

func lookupFailed(cause error) error {
	return biz.ErrLookupFailed.WithCause(cause)
}
