package cmd

import (
	"github.com/spf13/cobra"
)

// locateCmd checks the IP geolocation credentials
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "按出口 IP 定位当前坐标",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepos()
		if err != nil {
			return err
		}
		defer r.cleanup()
		ctx, cancel := commandContext()
		defer cancel()

		c, err := r.location.Resolve(ctx)
		if err != nil {
			return err
		}
		return printJSON(c)
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
