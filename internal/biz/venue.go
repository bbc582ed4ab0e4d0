package biz

import (
	"context"
	"math"
)

// RecommendedGroup 是 explore 结果中唯一被消费的分组。
const RecommendedGroup = "recommended"

// Coordinate 地理坐标（WGS84），构造后不可变。
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate 校验纬度 [-90,90]、经度 [-180,180]。
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinate{}, ErrInvalidCoordinate.WithMetadata(map[string]string{
			"lat": formatFloat(lat),
			"lng": formatFloat(lng),
		})
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// BoundingBox 视窗范围。
type BoundingBox struct {
	SouthWest Coordinate `json:"sw"`
	NorthEast Coordinate `json:"ne"`
}

// Icon 分类图标，完整地址为 prefix + 尺寸 + suffix。
type Icon struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// Category 场所分类，一个场所至多一个 primary。
type Category struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Icon    Icon   `json:"icon"`
	Primary bool   `json:"primary"`
}

// Venue 场所。以 ID 作为合并键；不同接口返回的同一场所其余字段可能不同。
type Venue struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Categories       []Category `json:"categories"`
	Location         Coordinate `json:"location"`
	FormattedAddress []string   `json:"formattedAddress"`
}

// Author 点评作者，LastName 可为空。
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
}

// Tip 用户点评（只读展示数据）。
type Tip struct {
	Text      string `json:"text"`
	Author    Author `json:"author"`
	CreatedAt int64  `json:"createdAt"` // unix 秒
}

// Group explore 结果中的一个分组。
type Group struct {
	Name   string   `json:"name"`
	Venues []*Venue `json:"venues"`
}

// ExploreResult 按推荐类别分组的附近场所。
type ExploreResult struct {
	Groups []Group `json:"groups"`
}

// Recommended 返回 "recommended" 分组；缺失时返回 nil。
func (r *ExploreResult) Recommended() []*Venue {
	if r == nil {
		return nil
	}
	for _, g := range r.Groups {
		if g.Name == RecommendedGroup {
			return g.Venues
		}
	}
	return nil
}

// SortOrder tips 排序方式。
type SortOrder string

const SortPopular SortOrder = "popular"

// TipsQuery tips 查询参数。
type TipsQuery struct {
	VenueID string
	Limit   int
	Sort    SortOrder
}

// VenueRepo 场所数据服务。每个调用都是一次网络往返，不做客户端重试。
type VenueRepo interface {
	Explore(ctx context.Context, point Coordinate) (*ExploreResult, error)
	// Search 中 categoryID 为空表示不按分类过滤。
	Search(ctx context.Context, categoryID string, box BoundingBox) ([]*Venue, error)
	Tips(ctx context.Context, q TipsQuery) ([]*Tip, error)
}

// LocationRepo 基于调用方网络出口的 IP 定位。
type LocationRepo interface {
	Resolve(ctx context.Context) (Coordinate, error)
}
