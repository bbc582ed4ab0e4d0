package biz

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultIconSize 标记与详情页使用的图标尺寸。
const DefaultIconSize = 32

var monthAbbr = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// VenueIcon 由第一个 primary 分类拼出图标地址，没有 primary 分类时返回 false。
func VenueIcon(v *Venue, size int, bg bool) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, c := range v.Categories {
		if c.Primary {
			return CategoryIcon(c, size, bg), true
		}
	}
	return "", false
}

func CategoryIcon(c Category, size int, bg bool) string {
	var sb strings.Builder
	sb.WriteString(c.Icon.Prefix)
	if bg {
		sb.WriteString("bg_")
	}
	sb.WriteString(strconv.Itoa(size))
	sb.WriteString(c.Icon.Suffix)
	return sb.String()
}

// CategoryNames 以 ", " 连接分类名。
func CategoryNames(v *Venue) string {
	names := make([]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// FormatTipDate 输出 UTC 的 "D Mon YYYY HH:MM"。
func FormatTipDate(unix int64) string {
	t := time.Unix(unix, 0).UTC()
	return fmt.Sprintf("%d %s %d %02d:%02d", t.Day(), monthAbbr[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FullName firstName，若有 lastName 则以空格拼接。
func (a Author) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// MapLink 指向外部地图的坐标链接。
func MapLink(c Coordinate) string {
	return "https://www.google.com/maps/search/?api=1&query=" + formatFloat(c.Lat) + "," + formatFloat(c.Lng)
}
