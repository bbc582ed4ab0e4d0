package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"venues-go/internal/biz"
	"venues-go/internal/conf"
	"venues-go/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	timeout time.Duration
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "venuectl",
	Short: "Venues 运维与排障工具",
	Long:  `venuectl 直接调用 Foursquare 与 IP 定位接口，用于核对配置、凭据与返回数据。`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "conf", "c", "./configs", "config path (directory or file)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "单次命令超时")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出请求日志")
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

type repos struct {
	venues   biz.VenueRepo
	location biz.LocationRepo
	cleanup  func()
}

// openRepos 按配置构造与服务端相同的 data 层。
func openRepos() (*repos, error) {
	bc, closeConf, err := conf.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	logger := log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.LevelWarn))
	if verbose {
		logger = log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.LevelDebug))
	}
	d, cleanup, err := data.NewData(bc.Foursquare, bc.Geolocation, logger)
	if err != nil {
		closeConf()
		return nil, err
	}
	return &repos{
		venues:   data.NewVenueRepo(d, logger),
		location: data.NewLocationRepo(d, logger),
		cleanup: func() {
			cleanup()
			closeConf()
		},
	}, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// parseLatLng 解析 "lat,lng"。
func parseLatLng(s string) (biz.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return biz.Coordinate{}, fmt.Errorf("坐标格式应为 lat,lng：%q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return biz.Coordinate{}, fmt.Errorf("纬度无效：%w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return biz.Coordinate{}, fmt.Errorf("经度无效：%w", err)
	}
	return biz.NewCoordinate(lat, lng)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
