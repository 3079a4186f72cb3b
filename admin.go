// admin.go - privacy-conscious analytics and the admin dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Zachkp/portfolio/internal/content"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type SectionStat struct {
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Views      int64     `json:"views"`
	LastViewed time.Time `json:"last_viewed"`
}

type AdminStats struct {
	TotalVisitors     int64           `json:"total_visitors"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	TotalSectionViews int64           `json:"total_section_views"`
	TopSections       []SectionStat   `json:"top_sections"`
	RecentVisitors    []VisitorMetric `json:"recent_visitors"`
	VisitorsToday     int64           `json:"visitors_today"`
	VisitorsThisWeek  int64           `json:"visitors_this_week"`
}

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate admin token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP within a process)
func (a *app) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

var untrackedPrefixes = []string{
	"/assets/",
	"/static/",
	"/admin/",
	"/api/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := a.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")
		a.track(func() {
			if err := a.recordVisitor(hashed, ua, path); err != nil {
				a.log.Error("Error recording visitor", zap.Error(err))
			}
		})
		c.Next()
	}
}

// Buckets refill completely within a minute, so an entry idle this long is
// indistinguishable from a fresh one and can be dropped.
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// loginLimiter hands out one token bucket per hashed client IP.
type loginLimiter struct {
	mu        sync.Mutex
	perMin    int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLoginLimiter(perMin int) *loginLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	return &loginLimiter{
		perMin:   perMin,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (l *loginLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= time.Minute {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) >= limiterIdle {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Get comprehensive admin statistics
func (a *app) getAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&stats.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&stats.TotalSectionViews, "SELECT COALESCE(SUM(views), 0) FROM section_views", nil},
		{&stats.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{today}},
		{&stats.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{now.AddDate(0, 0, -7)}},
	}
	for _, q := range counts {
		if err := a.db.QueryRow(q.query, q.args...).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	// Most viewed sections
	rows, err := a.db.Query(`
		SELECT slug, views, last_viewed
		FROM section_views
		ORDER BY views DESC, last_viewed DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s SectionStat
		if err := rows.Scan(&s.Slug, &s.Views, &s.LastViewed); err != nil {
			continue
		}
		if sec, err := content.SectionBySlug(s.Slug); err == nil {
			s.Title = sec.Title
		}
		stats.TopSections = append(stats.TopSections, s)
	}

	recent, err := a.listVisitors(50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

func (a *app) listVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := a.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":           "Privacy Policy",
			"retentionMonths": a.cfg.VisitorRetentionMonths,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		client := a.hashIP(c.ClientIP())
		if !a.limiter.allow(client) {
			a.log.Warn("Admin login rate limited", zap.String("client", client))
			c.HTML(http.StatusTooManyRequests, "admin-login.html", gin.H{
				"error": "Too many attempts. Try again later.",
			})
			return
		}

		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.AdminPassword)) == 1
		if userOK && passOK {
			c.SetCookie("admin_token", a.adminToken, 3600*24, "/admin", "", a.cfg.IsProduction(), true)
			a.log.Info("Admin login successful", zap.String("client", client))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		a.log.Warn("Failed admin login attempt", zap.String("client", client))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", a.cfg.IsProduction(), true)
		a.log.Info("Admin logout", zap.String("client", a.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			a.log.Error("Error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	// JSON for HTMX polling
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			a.jsonError(c, http.StatusInternalServerError, "Failed to load statistics", err.Error())
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.listVisitors(200)
		if err != nil {
			a.log.Error("Error loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := a.cleanupOldVisitorData()
		if err != nil {
			a.jsonError(c, http.StatusInternalServerError, "Privacy cleanup failed", err.Error())
			return
		}
		a.log.Info("Privacy cleanup", zap.Int64("removed", removed))
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			a.jsonError(c, http.StatusInternalServerError, "Failed to load statistics", err.Error())
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("Admin stats exported", zap.String("client", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
