package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB

	adminToken string
	salt       string // for IP hashing
	limiter    *loginLimiter

	wg sync.WaitGroup // background analytics writes
}

func newApp(cfg *config.Config, log *zap.Logger, db *sql.DB) *app {
	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		adminToken: generateToken(),
		salt:       generateToken(),
		limiter:    newLoginLimiter(cfg.LoginAttemptsPerMin),
	}
}

// track runs fn off the request path.
func (a *app) track(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// wait blocks until pending analytics writes finish.
func (a *app) wait() { a.wg.Wait() }

type sidebarItem struct {
	Slug  string
	Name  string
	Title string
	Icon  string
}

type educationView struct {
	content.Education
	ImageURL string
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (a *app) jsonError(c *gin.Context, status int, message, details string) {
	a.log.Warn(message, zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

// Recover from handler panics with a JSON 500 instead of a dropped connection.
func errorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

func (a *app) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	origins := a.cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func (a *app) router(templates string) *gin.Engine {
	r := gin.New()
	// Without trusted proxies ClientIP is the socket peer and X-Forwarded-For is ignored.
	if err := r.SetTrustedProxies(a.cfg.TrustedProxies()); err != nil {
		a.log.Error("Invalid TRUSTED_PROXIES, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(errorHandler(a.log))
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(a.visitorTrackingMiddleware())
	r.LoadHTMLGlob(templates)

	r.Static("/static", "./static")

	// Home page route
	r.GET("/", func(c *gin.Context) {
		items, err := a.sidebar()
		if err != nil {
			a.log.Error("Error building sidebar", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "content-error.html", gin.H{
				"error": "Sorry, this page could not be loaded.",
			})
			return
		}
		c.HTML(http.StatusOK, "index.html", gin.H{
			"sections": items,
			"first":    items[0].Slug,
		})
	})

	// HTMX section fragment
	r.GET("/content/:slug", a.sectionHandler)

	r.GET("/assets/*ref", func(c *gin.Context) {
		ref := content.AssetRef(strings.TrimPrefix(c.Param("ref"), "/"))
		asset, data, err := content.Open(ref)
		if err != nil {
			if errors.Is(err, content.ErrAssetNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			a.log.Error("Error reading asset", zap.String("ref", string(ref)), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, asset.ContentType, data)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(a.corsMiddleware())
	{
		api.GET("/content", func(c *gin.Context) {
			snap, ok := a.snapshot(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, snap)
		})
		api.GET("/content/:slug", func(c *gin.Context) {
			snap, ok := a.snapshot(c)
			if !ok {
				return
			}
			for _, s := range snap.Sections {
				if s.Slug == c.Param("slug") {
					c.JSON(http.StatusOK, s)
					return
				}
			}
			a.jsonError(c, http.StatusNotFound, "Section not found", c.Param("slug"))
		})
		api.GET("/educations", func(c *gin.Context) {
			snap, ok := a.snapshot(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, snap.Educations)
		})
	}

	a.setupAdminRoutes(r)
	return r
}

func (a *app) snapshot(c *gin.Context) (*content.Snapshot, bool) {
	snap, err := content.BuildSnapshot(a.cfg.BaseURL)
	if err != nil {
		a.log.Error("Error building content snapshot", zap.Error(err))
		a.jsonError(c, http.StatusInternalServerError, "Failed to load content", "")
		return nil, false
	}
	return snap, true
}

func (a *app) sidebar() ([]sidebarItem, error) {
	sections := content.Sections()
	if len(sections) == 0 {
		return nil, errors.New("no sections")
	}
	items := make([]sidebarItem, 0, len(sections))
	for _, s := range sections {
		item := sidebarItem{Slug: s.Slug(), Name: s.SidebarName, Title: s.Title}
		if item.Name == "" {
			item.Name = s.Title
		}
		if s.SidebarIcon != "" {
			asset, err := content.Resolve(s.SidebarIcon)
			if err != nil {
				return nil, fmt.Errorf("section %q icon: %w", s.Title, err)
			}
			item.Icon = asset.URL(a.cfg.BaseURL)
		}
		items = append(items, item)
	}
	return items, nil
}

func (a *app) sectionHandler(c *gin.Context) {
	section, err := content.SectionBySlug(c.Param("slug"))
	if err != nil {
		c.HTML(http.StatusNotFound, "content-error.html", gin.H{
			"error": "That section does not exist.",
		})
		return
	}

	slug := section.Slug()
	if c.GetHeader("DNT") != "1" {
		a.track(func() {
			if err := a.recordSectionView(slug); err != nil {
				a.log.Error("Error recording section view", zap.String("slug", slug), zap.Error(err))
			}
		})
	}

	tmpl, data, err := a.renderSection(section)
	if err != nil {
		a.log.Error("Error rendering section", zap.String("slug", slug), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "content-error.html", gin.H{
			"error": "Sorry, this section could not be loaded.",
		})
		return
	}
	c.HTML(http.StatusOK, tmpl, data)
}

// renderSection branches on the description kind and picks the template.
func (a *app) renderSection(s content.Section) (string, gin.H, error) {
	switch {
	case s.Description.IsText():
		body, err := content.RenderText(s.Description.Value)
		if err != nil {
			return "", nil, err
		}
		return "section-text.html", gin.H{"title": s.Title, "body": body}, nil

	case s.Description.IsComponent():
		switch s.Description.Ref {
		case content.EducationList:
			var items []educationView
			for _, e := range content.Educations() {
				asset, err := content.Resolve(e.Image)
				if err != nil {
					return "", nil, fmt.Errorf("education %q: %w", e.Name, err)
				}
				items = append(items, educationView{Education: e, ImageURL: asset.URL(a.cfg.BaseURL)})
			}
			return "education-content.html", gin.H{"title": s.Title, "educations": items}, nil
		}
		return "", nil, fmt.Errorf("%w: %q", content.ErrUnknownComponent, s.Description.Ref)
	}
	return "", nil, fmt.Errorf("section %q: unknown description kind %q", s.Title, s.Description.Kind)
}
