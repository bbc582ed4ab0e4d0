package data

import (
	"context"
	"time"

	"venues-go/pkg/metrics"

	"github.com/fatih/color"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

func operation(ctx context.Context) string {
	if tr, ok := transport.FromClientContext(ctx); ok {
		return tr.Operation()
	}
	return "unknown"
}

// requestHeader 为每个请求设置固定请求头，kv 为键值对。
func requestHeader(kv ...string) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if tr, ok := transport.FromClientContext(ctx); ok {
				for i := 0; i+1 < len(kv); i += 2 {
					if kv[i+1] != "" {
						tr.RequestHeader().Set(kv[i], kv[i+1])
					}
				}
			}
			return next(ctx, req)
		}
	}
}

// slowCall 外部接口耗时超过阈值时以红色输出。
func slowCall(threshold time.Duration) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if threshold <= 0 {
				return next(ctx, req)
			}
			begin := time.Now()
			reply, err := next(ctx, req)
			if d := time.Since(begin); d > threshold {
				color.Red("%v slow  call: %s .took: %s\n", time.Now().Format(time.RFC3339), operation(ctx), d)
			}
			return reply, err
		}
	}
}

// outcomer 由能区分业务层失败的响应体实现，例如 HTTP 200 但 meta.code 非 200。
type outcomer interface {
	outcome() string
}

// instrument 记录调用次数与耗时，每个请求只计一个结果。
func instrument() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			op := operation(ctx)
			begin := time.Now()
			reply, err := next(ctx, req)
			metrics.ProviderLatency.WithLabelValues(op).Observe(time.Since(begin).Seconds())
			result := "ok"
			if err != nil {
				result = "error"
			} else if o, ok := reply.(outcomer); ok {
				result = o.outcome()
			}
			metrics.ProviderRequests.WithLabelValues(op, result).Inc()
			return reply, err
		}
	}
}
