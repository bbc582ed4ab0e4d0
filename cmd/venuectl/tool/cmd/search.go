package cmd

import (
	"fmt"

	"venues-go/internal/biz"

	"github.com/spf13/cobra"
)

var (
	searchSW       string
	searchNE       string
	searchCategory string
)

// searchCmd runs a bounding-box search, the same request the map issues on every viewport change
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "按视窗范围搜索场所（与地图页一致）",
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchSW == "" || searchNE == "" {
			return fmt.Errorf("必须同时提供 --sw 与 --ne")
		}
		sw, err := parseLatLng(searchSW)
		if err != nil {
			return err
		}
		ne, err := parseLatLng(searchNE)
		if err != nil {
			return err
		}
		r, err := openRepos()
		if err != nil {
			return err
		}
		defer r.cleanup()
		ctx, cancel := commandContext()
		defer cancel()

		venues, err := r.venues.Search(ctx, searchCategory, biz.BoundingBox{SouthWest: sw, NorthEast: ne})
		if err != nil {
			return err
		}
		return printJSON(venues)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSW, "sw", "", "西南角 lat,lng")
	searchCmd.Flags().StringVar(&searchNE, "ne", "", "东北角 lat,lng")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "分类 ID，留空不过滤")
	rootCmd.AddCommand(searchCmd)
}
