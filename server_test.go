package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

func newTestApp(t *testing.T, mutate ...func(*config.Config)) (*app, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:                   "0",
		Env:                    "test",
		AllowedOrigins:         "*",
		AdminUsername:          "owner",
		AdminPassword:          "hunter2",
		VisitorRetentionMonths: 12,
		LoginAttemptsPerMin:    10,
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := openDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := newApp(cfg, zap.NewNop(), db)
	return a, a.router("templates/*")
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	return do(r, httptest.NewRequest(http.MethodGet, path, nil))
}

func countRows(t *testing.T, a *app, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, a.db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestIndex(t *testing.T) {
	_, r := newTestApp(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `/content/about`)
	assert.Contains(t, body, `/content/education`)
	assert.Contains(t, body, `/assets/icons/about`)
	assert.Less(t, strings.Index(body, ">About<"), strings.Index(body, ">Education<"))
}

func TestSectionFragment_About(t *testing.T) {
	a, r := newTestApp(t)

	w := get(r, "/content/about")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "About Me")
	assert.Contains(t, w.Body.String(), "passionate Front-End Developer")

	a.wait()
	assert.Equal(t, 1, countRows(t, a, "SELECT views FROM section_views WHERE slug = ?", "about"))
}

func TestSectionFragment_Education(t *testing.T) {
	_, r := newTestApp(t)

	w := get(r, "/content/education")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	uph := strings.Index(body, "Pelita Harapan University")
	smk := strings.Index(body, "Vocational High School 2 Jakarta")
	smp := strings.Index(body, "Junior High School Maria Immaculata Marsudirini Jakarta")
	require.True(t, uph >= 0 && smk >= 0 && smp >= 0)
	assert.True(t, uph < smk && smk < smp, "education must keep authored order")
	assert.Contains(t, body, "/assets/images/uph")
}

func TestSectionFragment_NotFound(t *testing.T) {
	a, r := newTestApp(t)

	w := get(r, "/content/projects")
	assert.Equal(t, http.StatusNotFound, w.Code)

	a.wait()
	assert.Equal(t, 0, countRows(t, a, "SELECT COUNT(*) FROM section_views"))
}

func TestRenderSection_UnknownComponent(t *testing.T) {
	a, _ := newTestApp(t)

	_, _, err := a.renderSection(content.Section{
		Title:       "Projects",
		Description: content.Component("project-grid"),
	})
	assert.ErrorIs(t, err, content.ErrUnknownComponent)
}

func TestAssets(t *testing.T) {
	_, r := newTestApp(t)

	w := get(r, "/assets/images/uph")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())

	assert.Equal(t, http.StatusNotFound, get(r, "/assets/images/nope").Code)
}

func TestAPIContent(t *testing.T) {
	_, r := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	req.Header.Set("Origin", "https://frontend.example")
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var snap content.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Sections, 2)
	assert.Equal(t, "About", snap.Sections[0].SidebarName)
	assert.Equal(t, content.KindText, snap.Sections[0].Description.Kind)
	assert.Equal(t, content.EducationList, snap.Sections[1].Description.Ref)
}

func TestAPIContent_RestrictedOrigins(t *testing.T) {
	_, r := newTestApp(t, func(c *config.Config) { c.AllowedOrigins = "https://frontend.example" })

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	req.Header.Set("Origin", "https://frontend.example")
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://frontend.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/content", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)
}

func TestAPISectionAndEducations(t *testing.T) {
	_, r := newTestApp(t)

	w := get(r, "/api/content/about")
	require.Equal(t, http.StatusOK, w.Code)
	var s content.SnapshotSection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "About Me", s.Title)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/content/nope").Code)

	w = get(r, "/api/educations")
	require.Equal(t, http.StatusOK, w.Code)
	var edu []content.SnapshotEducation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edu))
	require.Len(t, edu, 3)
	assert.Equal(t, "2026-2029", edu[0].Year)
}

func TestJSONErrorUsesAppLogger(t *testing.T) {
	a, r := newTestApp(t)
	core, logs := observer.New(zapcore.WarnLevel)
	a.log = zap.New(core)

	w := get(r, "/api/content/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	entries := logs.FilterMessage("Section not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "nope", entries[0].ContextMap()["details"])
}

func TestHealthz(t *testing.T) {
	_, r := newTestApp(t)
	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestErrorHandlerRecovers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(errorHandler(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := get(r, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}
