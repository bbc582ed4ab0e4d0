package cmd

import (
	"venues-go/internal/biz"

	"github.com/spf13/cobra"
)

var tipsLimit int

// tipsCmd fetches the most popular tips of a venue
var tipsCmd = &cobra.Command{
	Use:   "tips <venue-id>",
	Short: "查询场所热门点评",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepos()
		if err != nil {
			return err
		}
		defer r.cleanup()
		ctx, cancel := commandContext()
		defer cancel()

		tips, err := r.venues.Tips(ctx, biz.TipsQuery{VenueID: args[0], Limit: tipsLimit, Sort: biz.SortPopular})
		if err != nil {
			return err
		}
		out := make([]map[string]string, 0, len(tips))
		for _, t := range tips {
			out = append(out, map[string]string{
				"text":   t.Text,
				"author": t.Author.FullName(),
				"date":   biz.FormatTipDate(t.CreatedAt),
			})
		}
		return printJSON(out)
	},
}

func init() {
	tipsCmd.Flags().IntVar(&tipsLimit, "limit", biz.DetailTipLimit, "返回条数")
	rootCmd.AddCommand(tipsCmd)
}
