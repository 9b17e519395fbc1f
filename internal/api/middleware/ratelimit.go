package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
)

// RateLimiter ограничивает частоту запросов по клиенту.
// Публичные маршруты (слоты, гостевые бронирования) открыты без
// аутентификации, поэтому ключом служит X-User-ID, а для анонимов - IP.
type RateLimiter struct {
	rps      float64
	burst    int
	limiters sync.Map // map[string]*rate.Limiter
}

// NewRateLimiter создает ограничитель с параметрами из конфигурации
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:   rps,
		burst: burst,
	}
}

// Middleware возвращает mux-совместимый middleware
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientKey(r)).Allow() {
			handlers.RespondError(w, http.StatusTooManyRequests, "слишком много запросов")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	if actual, loaded := l.limiters.LoadOrStore(key, lim); loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

// clientKey определяет клиента: аутентифицированные по X-User-ID, остальные по IP
func clientKey(r *http.Request) string {
	if id := r.Header.Get(HeaderUserID); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
