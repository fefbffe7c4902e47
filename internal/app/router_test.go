package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waitumusic/waitumusic/internal/observability"
	"github.com/waitumusic/waitumusic/internal/rbac"
	"github.com/waitumusic/waitumusic/internal/roles"
	"github.com/waitumusic/waitumusic/jobs"
)

type emptyRepo struct{}

func (emptyRepo) ListCustomRoles(ctx context.Context) ([]roles.CustomRole, error) {
	return nil, nil
}

func (emptyRepo) GetCustomRole(ctx context.Context, name string) (roles.CustomRole, error) {
	return roles.CustomRole{}, roles.ErrNotFound
}

func (emptyRepo) CreateCustomRole(ctx context.Context, role roles.CustomRole) (roles.CustomRole, error) {
	return role, nil
}

func (emptyRepo) UpdateCustomRole(ctx context.Context, role roles.CustomRole) (roles.CustomRole, error) {
	return role, nil
}

func (emptyRepo) DeleteCustomRole(ctx context.Context, name string) error {
	return nil
}

func newTestRouter(t *testing.T, cfg *Config) (http.Handler, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	svc := roles.NewService(emptyRepo{}, roles.ServiceConfig{})
	resolver := rbac.NewResolver(nil, nil, metrics.RecordDiagnostic)
	handler := roles.NewHandler(nil, svc, resolver, rbac.DefaultSections(), rbac.Middleware{Resolver: resolver, Catalogs: svc})
	router := NewRouter(RouterParams{
		Config:       cfg,
		RolesHandler: handler,
		JobHandler:   jobs.NewHandler(nil, nil),
		Metrics:      metrics,
	})
	return router, metrics
}

func get(router http.Handler, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	if role != "" {
		req.Header.Set("X-Waitu-Role", role)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouterServesHealthAndSecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t, &Config{})

	rr := get(router, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouterResolvesRoleFromIdentityHeader(t *testing.T) {
	router, _ := newTestRouter(t, &Config{})

	rr := get(router, "/api/me/permissions", "fan")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "fan", body.Role)
	require.Equal(t, []string{"opphub_access", "view_bookings", "view_content"}, body.Permissions)

	require.Equal(t, http.StatusForbidden, get(router, "/api/roles/", "fan").Code)
	require.Equal(t, http.StatusOK, get(router, "/api/roles/", "admin").Code)
	require.Equal(t, http.StatusOK, get(router, "/api/jobs/health", "").Code)
}

func TestRouterCustomIdentityHeader(t *testing.T) {
	router, _ := newTestRouter(t, &Config{IdentityHeader: "X-Role"})

	req := httptest.NewRequest(http.MethodGet, "/api/me/sections", nil)
	req.Header.Set("X-Role", "superadmin")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// The default header is ignored once another one is configured.
	require.Equal(t, http.StatusForbidden, get(router, "/api/me/sections", "superadmin").Code)
}

func TestRouterRateLimitsByIP(t *testing.T) {
	router, _ := newTestRouter(t, &Config{RateLimitPerMinute: 2})

	require.Equal(t, http.StatusOK, get(router, "/healthz", "").Code)
	require.Equal(t, http.StatusOK, get(router, "/healthz", "").Code)
	require.Equal(t, http.StatusTooManyRequests, get(router, "/healthz", "").Code)
}

func TestRouterExposesDiagnosticsMetric(t *testing.T) {
	router, _ := newTestRouter(t, &Config{})

	get(router, "/api/me/permissions", "ghost")
	rr := get(router, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, strings.Contains(rr.Body.String(), `waitumusic_rbac_diagnostics_total{kind="role_not_found"} 1`))
	require.Contains(t, rr.Body.String(), `waitumusic_http_requests_total{code="200",route="/api/me/permissions"}`)
}
