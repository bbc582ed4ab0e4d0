package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	waitURL      string
	waitTimeout  time.Duration
	waitInterval time.Duration
)

// waitreadyCmd waits until venued reports healthy status
var waitreadyCmd = &cobra.Command{
	Use:   "waitready",
	Short: "等待 venued /healthz 就绪（部署编排用）",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
		defer cancel()
		for {
			if healthy(ctx, waitURL) {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("waitready 超时：%s", waitURL)
			case <-time.After(waitInterval):
			}
		}
	},
}

func healthy(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func init() {
	waitreadyCmd.Flags().StringVar(&waitURL, "url", "http://127.0.0.1:8000/healthz", "就绪探针 URL")
	waitreadyCmd.Flags().DurationVar(&waitTimeout, "timeout", 2*time.Minute, "等待超时")
	waitreadyCmd.Flags().DurationVar(&waitInterval, "interval", 2*time.Second, "探测间隔")
	rootCmd.AddCommand(waitreadyCmd)
}
