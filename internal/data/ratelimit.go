package data

import (
	"context"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
)

// 基础令牌桶，rate <= 0 表示不限流
type tokenBucket struct {
	rate       float64 // tokens per second
	capacity   float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(rps float64) *tokenBucket {
	if rps <= 0 {
		return nil
	}
	b := &tokenBucket{
		rate:       rps,
		capacity:   rps * 2,
		tokens:     rps * 2,
		lastRefill: time.Now(),
	}
	return b
}

// reserve 取走一个令牌，返回需要等待的时长。
func (b *tokenBucket) reserve() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	delta := now.Sub(b.lastRefill).Seconds()
	b.tokens = minFloat(b.capacity, b.tokens+delta*b.rate)
	b.lastRefill = now
	b.tokens -= 1
	if b.tokens >= 0 {
		return 0
	}
	return time.Duration(-b.tokens / b.rate * float64(time.Second))
}

func (b *tokenBucket) wait(ctx context.Context) error {
	d := b.reserve()
	if d == 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		b.release()
		return ctx.Err()
	}
}

// release 归还放弃等待的令牌。
func (b *tokenBucket) release() {
	b.mu.Lock()
	b.tokens = minFloat(b.capacity, b.tokens+1)
	b.mu.Unlock()
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// rateLimit 对外部接口请求排队限流，等待期间 ctx 取消则放弃请求。
func rateLimit(b *tokenBucket) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (reply interface{}, err error) {
			if b == nil {
				return next(ctx, req)
			}
			if err := b.wait(ctx); err != nil {
				return nil, errors.New(429, "RATE_LIMIT", "rate limit wait aborted").WithCause(err)
			}
			return next(ctx, req)
		}
	}
}
