package middleware

import (
	"net"
	"net/http"
	"time"

	"accessibility-admin-api/internal/cache"
	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/models"

	"github.com/gin-gonic/gin"
)

const allowListKey = "allowlist"

var allowListCache = cache.New[string, []*net.IPNet]()

// InvalidateAllowList drops the cached allow-list after a mutation.
func InvalidateAllowList() {
	allowListCache.Delete(allowListKey)
}

func loadAllowList() ([]*net.IPNet, error) {
	var rows []models.AllowedIP
	if err := database.GetDB().Find(&rows).Error; err != nil {
		return nil, err
	}
	nets := make([]*net.IPNet, 0, len(rows))
	for _, r := range rows {
		_, ipNet, err := net.ParseCIDR(r.CIDR)
		if err != nil {
			// A bare address is accepted as a /32 (or /128) entry.
			ip := net.ParseIP(r.CIDR)
			if ip == nil {
				continue
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			ipNet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// IPAllowListMiddleware rejects requests from addresses outside the stored
// allow-list. An empty list allows everything so a fresh install cannot lock
// itself out. Lookups are cached for cacheTTL.
func IPAllowListMiddleware(cacheTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		nets, err := allowListCache.GetOrSet(allowListKey, cacheTTL, loadAllowList)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load IP allow-list"})
			c.Abort()
			return
		}
		if len(nets) == 0 {
			c.Next()
			return
		}

		ip := net.ParseIP(c.ClientIP())
		if ip != nil {
			for _, n := range nets {
				if n.Contains(ip) {
					c.Next()
					return
				}
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Address is not on the allow-list"})
		c.Abort()
	}
}
