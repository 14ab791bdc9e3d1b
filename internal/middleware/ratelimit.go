package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const rateLimitPrefix = "hr_ratelimit"

// Limiter решает, укладывается ли очередной запрос по ключу в лимит окна
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// StoreLimiter считает запросы в хранилище ulule/limiter (память или Redis).
// Ошибка хранилища не блокирует запрос.
type StoreLimiter struct {
	store  limiter.Store
	logger *slog.Logger
}

// NewMemoryLimiter - лимитер в памяти процесса
func NewMemoryLimiter() *StoreLimiter {
	return &StoreLimiter{
		store: memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: time.Minute,
		}),
		logger: slog.Default(),
	}
}

func (l *StoreLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	res, err := l.store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(limit)})
	if err != nil {
		l.logger.Warn("rate limiter store unavailable, request allowed", slog.Any("error", err))
		return true
	}
	return !res.Reached
}

// RateLimit ограничивает число запросов на ключ; пустой ключ не ограничивается
func RateLimit(limiter Limiter, keyFn func(*http.Request) string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" || limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key, limit, window) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP строит ключ лимита по адресу клиента.
// Заголовки X-Forwarded-For и X-Real-IP учитываются только за доверенным прокси.
func ClientIP(trustProxy bool) func(*http.Request) string {
	return func(r *http.Request) string {
		if trustProxy {
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				first, _, _ := strings.Cut(forwarded, ",")
				return strings.TrimSpace(first)
			}
			if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
				return ip
			}
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}
