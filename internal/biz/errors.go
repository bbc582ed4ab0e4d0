package biz

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
)

var (
	LookupFailed      = "LOOKUP_FAILED"
	ProviderError     = "PROVIDER_ERROR"
	VenueNotFound     = "VENUE_NOT_FOUND"
	InvalidCoordinate = "INVALID_COORDINATE"
	MapNotActive      = "MAP_NOT_ACTIVE"
)

var (
	// ErrLookupFailed 定位服务不可用或返回非数字经纬度。
	ErrLookupFailed = errors.New(503, LookupFailed, "geolocation lookup failed")
	// ErrProviderError 场所服务调用失败（传输错误或 meta.code 非 200）。
	ErrProviderError = errors.New(502, ProviderError, "venue provider error")
	// ErrVenueNotFound 两个缓存中都没有该场所。
	ErrVenueNotFound     = errors.New(404, VenueNotFound, "venue not found")
	ErrInvalidCoordinate = errors.New(400, InvalidCoordinate, "coordinate out of range")
	ErrMapNotActive      = errors.New(409, MapNotActive, "map is not active")
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
