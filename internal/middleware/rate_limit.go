package middleware

import (
	"net/http"
	"sync"

	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  *sync.Mutex
	r   rate.Limit // jumlah request per detik
	b   int        // burst (kapasitas kantong)
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		mu:  &sync.Mutex{},
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[key]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[key] = limiter
	}

	return limiter
}

// RateLimits holds per-route limits. A zero RPS disables limiting.
type RateLimits struct {
	RPS   float64
	Burst int
}

// Scaled returns limits multiplied by factor, for cheaper read routes.
func (l RateLimits) Scaled(factor float64) RateLimits {
	return RateLimits{RPS: l.RPS * factor, Burst: int(float64(l.Burst) * factor)}
}

// RateLimitByIP: r = request per detik, b = burst
func RateLimitByIP(limits RateLimits) gin.HandlerFunc {
	if limits.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := limits.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := NewIPRateLimiter(rate.Limit(limits.RPS), burst)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			response.Abort(c,
				http.StatusTooManyRequests,
				apperror.ErrTooManyRequests.Code,
				apperror.ErrTooManyRequests.Message,
			)
			return
		}
		c.Next()
	}
}
