package server

import (
	"encoding/json"
	"regexp"

	"venues-go/internal/service"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

var jsonCallback = regexp.MustCompile(`^[A-Za-z_$][\w$.]*$`)

// geoJSON structures
type geoJSONFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   map[string]any `json:"geometry"`
}

type geoJSONFC struct {
	Type     string           `json:"type"`
	BBox     []float64        `json:"bbox,omitempty"`
	Features []geoJSONFeature `json:"features"`
}

// encodeGeoJSON 将地图标记输出为 FeatureCollection，其余响应走默认编码。
func encodeGeoJSON(w http.ResponseWriter, r *http.Request, v any) error {
	reply, ok := v.(*service.MapReply)
	if !ok {
		return http.DefaultResponseEncoder(w, r, v)
	}
	fc := geoJSONFC{Type: "FeatureCollection", Features: make([]geoJSONFeature, 0, len(reply.Markers))}
	if reply.Widget != nil {
		b := reply.Widget.Bounds
		fc.BBox = []float64{b.SouthWest.Lng, b.SouthWest.Lat, b.NorthEast.Lng, b.NorthEast.Lat}
	}
	for _, m := range reply.Markers {
		fc.Features = append(fc.Features, geoJSONFeature{
			Type: "Feature",
			Properties: map[string]any{
				"venue_id":  m.VenueID,
				"icon":      m.Icon.URL,
				"shadow":    m.Icon.ShadowURL,
				"popup":     m.Popup.HTML,
				"max_width": m.Popup.MaxWidth,
			},
			Geometry: map[string]any{"type": "Point", "coordinates": []float64{m.Position.Lng, m.Position.Lat}},
		})
	}
	if cb := r.URL.Query().Get("json_callback"); cb != "" {
		if !jsonCallback.MatchString(cb) {
			return errors.BadRequest("BAD_REQUEST", "json_callback must be a JavaScript identifier")
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		b, _ := json.Marshal(fc)
		if _, err := w.Write([]byte(cb + "(")); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		_, err := w.Write([]byte(")"))
		return err
	}
	w.Header().Set("Content-Type", "application/geo+json; charset=utf-8")
	return json.NewEncoder(w).Encode(fc)
}
