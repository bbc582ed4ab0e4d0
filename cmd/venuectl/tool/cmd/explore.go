package cmd

import (
	"fmt"

	"venues-go/internal/biz"

	"github.com/spf13/cobra"
)

var (
	exploreAt  string
	exploreAll bool
)

// exploreCmd resolves the caller location (or uses --at) and lists recommended venues
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "定位并列出附近推荐场所（与首页加载一致）",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepos()
		if err != nil {
			return err
		}
		defer r.cleanup()
		ctx, cancel := commandContext()
		defer cancel()

		var at biz.Coordinate
		if exploreAt != "" {
			if at, err = parseLatLng(exploreAt); err != nil {
				return err
			}
		} else if at, err = r.location.Resolve(ctx); err != nil {
			return fmt.Errorf("定位失败，可用 --at 指定坐标：%w", err)
		}
		res, err := r.venues.Explore(ctx, at)
		if err != nil {
			return err
		}
		if exploreAll {
			return printJSON(res)
		}
		items := make([]map[string]string, 0, len(res.Recommended()))
		for _, v := range res.Recommended() {
			icon, _ := biz.VenueIcon(v, biz.HomeIconSize, false)
			items = append(items, map[string]string{
				"id":         v.ID,
				"name":       v.Name,
				"categories": biz.CategoryNames(v),
				"icon":       icon,
			})
		}
		return printJSON(map[string]any{"location": at, "venues": items})
	},
}

func init() {
	exploreCmd.Flags().StringVar(&exploreAt, "at", "", "跳过定位，直接使用 lat,lng")
	exploreCmd.Flags().BoolVar(&exploreAll, "all", false, "输出全部分组的原始结果")
	rootCmd.AddCommand(exploreCmd)
}
