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
	"golang.org/x/sync/singleflight"
)

const (
	opExplore = "/venues/explore"
	opSearch  = "/venues/search"
	opTips    = "/venues/tips"
)

// fsqEnvelope Foursquare v2 统一响应结构。
type fsqEnvelope struct {
	Meta struct {
		Code        int    `json:"code"`
		ErrorType   string `json:"errorType"`
		ErrorDetail string `json:"errorDetail"`
	} `json:"meta"`
	Response json.RawMessage `json:"response"`
}

func (e *fsqEnvelope) outcome() string {
	if e.Meta.Code == nethttp.StatusOK {
		return "ok"
	}
	return "meta_" + strconv.Itoa(e.Meta.Code)
}

type fsqVenue struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Categories []fsqCategory `json:"categories"`
	Location   fsqLocation   `json:"location"`
}

type fsqCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon struct {
		Prefix string `json:"prefix"`
		Suffix string `json:"suffix"`
	} `json:"icon"`
	Primary bool `json:"primary"`
}

type fsqLocation struct {
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	FormattedAddress []string `json:"formattedAddress"`
}

type fsqExplore struct {
	Groups []struct {
		Name  string `json:"name"`
		Items []struct {
			Venue fsqVenue `json:"venue"`
		} `json:"items"`
	} `json:"groups"`
}

type fsqSearch struct {
	Venues []fsqVenue `json:"venues"`
}

type fsqTips struct {
	Tips struct {
		Count int      `json:"count"`
		Items []fsqTip `json:"items"`
	} `json:"tips"`
}

type fsqTip struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
	User      struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
}

// NewVenueRepo Foursquare v2 实现。
func NewVenueRepo(d *Data, logger log.Logger) biz.VenueRepo {
	return &venueRepo{data: d, log: log.NewHelper(log.With(logger, "module", "data/foursquare"))}
}

type venueRepo struct {
	data *Data
	log  *log.Helper
	tips singleflight.Group
}

func (r *venueRepo) Explore(ctx context.Context, point biz.Coordinate) (*biz.ExploreResult, error) {
	params := url.Values{}
	params.Set("ll", latLng(point))
	var raw fsqExplore
	if err := r.get(ctx, opExplore, "/venues/explore", params, &raw); err != nil {
		return nil, err
	}
	res := &biz.ExploreResult{Groups: make([]biz.Group, 0, len(raw.Groups))}
	for _, g := range raw.Groups {
		group := biz.Group{Name: g.Name, Venues: make([]*biz.Venue, 0, len(g.Items))}
		for _, it := range g.Items {
			v, err := toVenue(it.Venue)
			if err != nil {
				// 只有 recommended 分组被消费，其余分组的坏数据直接跳过
				if g.Name == biz.RecommendedGroup {
					return nil, providerError(opExplore, err)
				}
				continue
			}
			group.Venues = append(group.Venues, v)
		}
		res.Groups = append(res.Groups, group)
	}
	return res, nil
}

func (r *venueRepo) Search(ctx context.Context, categoryID string, box biz.BoundingBox) ([]*biz.Venue, error) {
	params := url.Values{}
	params.Set("intent", "browse")
	params.Set("sw", latLng(box.SouthWest))
	params.Set("ne", latLng(box.NorthEast))
	// 空的 categoryId 会让接口返回零条结果，必须省略
	if id := strings.TrimSpace(categoryID); id != "" {
		params.Set("categoryId", id)
	}
	var raw fsqSearch
	if err := r.get(ctx, opSearch, "/venues/search", params, &raw); err != nil {
		return nil, err
	}
	venues := make([]*biz.Venue, 0, len(raw.Venues))
	for _, fv := range raw.Venues {
		v, err := toVenue(fv)
		if err != nil {
			return nil, providerError(opSearch, err)
		}
		venues = append(venues, v)
	}
	return venues, nil
}

// Tips 同一场所的并发请求共享一次网络往返，首个调用方取消不影响其余等待者。
func (r *venueRepo) Tips(ctx context.Context, q biz.TipsQuery) ([]*biz.Tip, error) {
	if q.Limit <= 0 {
		q.Limit = 1
	}
	if q.Sort == "" {
		q.Sort = biz.SortPopular
	}
	key := fmt.Sprintf("%s|%d|%s", q.VenueID, q.Limit, q.Sort)
	v, err, _ := r.tips.Do(key, func() (interface{}, error) {
		params := url.Values{}
		params.Set("sort", string(q.Sort))
		params.Set("limit", strconv.Itoa(q.Limit))
		var raw fsqTips
		if err := r.get(context.WithoutCancel(ctx), opTips, "/venues/"+url.PathEscape(q.VenueID)+"/tips", params, &raw); err != nil {
			return nil, err
		}
		tips := make([]*biz.Tip, 0, len(raw.Tips.Items))
		for _, t := range raw.Tips.Items {
			if len(tips) == q.Limit {
				break
			}
			tips = append(tips, &biz.Tip{
				Text:      t.Text,
				Author:    biz.Author{FirstName: t.User.FirstName, LastName: t.User.LastName},
				CreatedAt: t.CreatedAt,
			})
		}
		return tips, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*biz.Tip), nil
}

// get 附加凭据与协议版本，校验 meta.code 并解码 response。
func (r *venueRepo) get(ctx context.Context, op, path string, params url.Values, out any) error {
	cfg := r.data.fsqCfg
	params.Set("client_id", cfg.ClientID)
	params.Set("client_secret", cfg.ClientSecret)
	params.Set("v", cfg.Version)

	var env fsqEnvelope
	err := r.data.fsq.Invoke(ctx, nethttp.MethodGet, r.data.fsqPath+path+"?"+params.Encode(), nil, &env, http.Operation(op))
	if err != nil {
		return providerError(op, fmt.Errorf("foursquare request failed: %w", err))
	}
	if env.Meta.Code != nethttp.StatusOK {
		r.log.WithContext(ctx).Errorf("%s meta.code=%d %s: %s", op, env.Meta.Code, env.Meta.ErrorType, env.Meta.ErrorDetail)
		return biz.ErrProviderError.WithMetadata(map[string]string{
			"operation": op,
			"code":      strconv.Itoa(env.Meta.Code),
			"type":      env.Meta.ErrorType,
		})
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return providerError(op, err)
	}
	return nil
}

func providerError(op string, cause error) error {
	return biz.ErrProviderError.WithMetadata(map[string]string{"operation": op}).WithCause(cause)
}

// toVenue 校验并转换为领域实体。
func toVenue(fv fsqVenue) (*biz.Venue, error) {
	if fv.ID == "" {
		return nil, fmt.Errorf("venue %q without id", fv.Name)
	}
	if fv.Location.Lat == nil || fv.Location.Lng == nil {
		return nil, fmt.Errorf("venue %s without coordinates", fv.ID)
	}
	loc, err := biz.NewCoordinate(*fv.Location.Lat, *fv.Location.Lng)
	if err != nil {
		return nil, fmt.Errorf("venue %s: %w", fv.ID, err)
	}
	v := &biz.Venue{
		ID:               fv.ID,
		Name:             fv.Name,
		Categories:       make([]biz.Category, 0, len(fv.Categories)),
		Location:         loc,
		FormattedAddress: fv.Location.FormattedAddress,
	}
	primary := false
	for _, c := range fv.Categories {
		// 至多保留一个 primary
		isPrimary := c.Primary && !primary
		primary = primary || c.Primary
		v.Categories = append(v.Categories, biz.Category{
			ID:      c.ID,
			Name:    c.Name,
			Icon:    biz.Icon{Prefix: c.Icon.Prefix, Suffix: c.Icon.Suffix},
			Primary: isPrimary,
		})
	}
	return v, nil
}

func latLng(c biz.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
