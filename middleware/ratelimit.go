package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"school-admin/telemetry"
)

const rateLimitWindow = time.Minute

// LoginRateLimiter counts requests per client IP in fixed one-minute windows.
type LoginRateLimiter struct {
	client   *redis.Client
	limit    int
	trusted  []netip.Prefix
	now      func() time.Time
	attempts metric.Int64Counter
	blocked  metric.Int64Counter
}

// NewLoginRateLimiter keys requests by ClientIP; trustedProxies may be nil.
func NewLoginRateLimiter(client *redis.Client, limitPerMinute int, trustedProxies []netip.Prefix) (*LoginRateLimiter, error) {
	meter := telemetry.Meter()
	attempts, err := meter.Int64Counter("login.attempts", metric.WithDescription("Login requests seen by the rate limiter"))
	if err != nil {
		return nil, err
	}
	blocked, err := meter.Int64Counter("login.blocked", metric.WithDescription("Login requests rejected by the rate limiter"))
	if err != nil {
		return nil, err
	}
	return &LoginRateLimiter{
		client:   client,
		limit:    limitPerMinute,
		trusted:  trustedProxies,
		now:      time.Now,
		attempts: attempts,
		blocked:  blocked,
	}, nil
}

func (l *LoginRateLimiter) key(ip string) string {
	return fmt.Sprintf("ratelimit:login:%s:%d", ip, l.now().Unix()/int64(rateLimitWindow.Seconds()))
}

func (l *LoginRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r, l.trusted)
		key := l.key(ip)
		ctx := r.Context()
		ipAttribute := metric.WithAttributes(attribute.String("ip", ip))
		l.attempts.Add(ctx, 1, ipAttribute)

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			// Fail open when Redis is unreachable.
			log.Printf("⚠️ Rate limiter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.Printf("⚠️ Could not set rate limit expiry for %s: %v", ip, err)
			}
		}

		if count > int64(l.limit) {
			log.Printf("⚠️ Too many login attempts from %s", ip)
			l.blocked.Add(ctx, 1, ipAttribute)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rateLimitWindow.Seconds())))
			writeError(w, "Çok fazla giriş denemesi. Lütfen biraz sonra tekrar deneyin.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ParseTrustedProxies reads proxy addresses given as single IPs or CIDR ranges.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// ClientIP is the socket peer address unless that peer is a trusted proxy.
// Then X-Forwarded-For is walked from the right and the first hop that is
// not a trusted proxy wins.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	peer = peer.Unmap()
	if !isTrusted(peer, trusted) {
		return peer.String()
	}

	client := peer
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, ok := parseHop(hops[i])
		if !ok {
			break
		}
		client = hop
		if !isTrusted(hop, trusted) {
			break
		}
	}
	return client.String()
}

func parseHop(value string) (netip.Addr, bool) {
	value = strings.TrimSpace(value)
	if addr, err := netip.ParseAddr(value); err == nil {
		return addr.Unmap(), true
	}
	if addrPort, err := netip.ParseAddrPort(value); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	return netip.Addr{}, false
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
