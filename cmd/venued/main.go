package main

import (
	"context"
	"flag"
	"os"

	"venues-go/internal/biz"
	"venues-go/internal/conf"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "venued"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server, mc *biz.MapController, home *biz.HomeUsecase) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs, mc),
		kratos.AfterStart(func(ctx context.Context) error {
			// 首页初始加载失败只记录日志，由 /session/load 重新触发
			go func() {
				if err := home.Load(context.Background(), nil); err != nil {
					log.NewHelper(logger).Warnf("initial load: %v", err)
				}
			}()
			return nil
		}),
	)
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)
	bc, closeConf, err := conf.Load(flagconf)
	if err != nil {
		panic(err)
	}
	defer closeConf()

	app, cleanup, err := wireApp(bc.Server, bc.Foursquare, bc.Geolocation, bc.Map, bc.Session, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
