package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the API documentation endpoint.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	// AllowedIPs restricts access to the listed addresses. Entries may be
	// single IPs or CIDR ranges. Empty means no restriction.
	AllowedIPs []string
}

// ipAllowlist holds pre-parsed allowlist entries so each request only
// pays for the membership check.
type ipAllowlist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func newIPAllowlist(entries []string) *ipAllowlist {
	list := &ipAllowlist{}
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				list.nets = append(list.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			list.ips = append(list.ips, ip)
		}
	}
	return list
}

func (l *ipAllowlist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range l.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range l.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SwaggerProtection gates the documentation routes. Disabled config answers
// 404 so the endpoint is indistinguishable from an unregistered route.
// When AllowedIPs is set the client address must match, and when RequireAuth
// is set the JWT middleware runs as well. Both checks can be combined.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	allowlist := newIPAllowlist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_NOT_FOUND",
					"message": "API documentation is not available",
				},
			})
			return
		}

		if len(cfg.AllowedIPs) > 0 && !allowlist.contains(clientAddr(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Access to API documentation is restricted",
				},
			})
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

// clientAddr resolves the caller's IP, preferring gin's trusted-proxy aware
// ClientIP and falling back to the raw remote address.
func clientAddr(c *gin.Context) net.IP {
	if parsed := net.ParseIP(c.ClientIP()); parsed != nil {
		return parsed
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
