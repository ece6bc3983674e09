package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client IP for request logging. The service runs
// behind nginx in production, so X-Real-IP is checked first, then the
// first public address in X-Forwarded-For, then gin's ClientIP for
// direct connections.
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if ip := net.ParseIP(realIP); ip != nil && !ip.IsPrivate() {
		return realIP
	}

	// X-Forwarded-For holds "client, proxy1, proxy2". The first public
	// entry is the client; private entries are internal hops.
	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		entries := strings.Split(forwarded, ",")
		for _, entry := range entries {
			candidate := strings.TrimSpace(entry)
			if ip := net.ParseIP(candidate); ip != nil && !ip.IsPrivate() && !ip.IsLoopback() {
				return candidate
			}
		}
		// All hops private: the leftmost is the closest to the client
		// we can get.
		first := strings.TrimSpace(entries[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	return c.ClientIP()
}
