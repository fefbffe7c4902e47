package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waitumusic/waitumusic/internal/shared"
)

type staticSource struct {
	catalog *Catalog
	err     error
	calls   int
}

func (s *staticSource) Snapshot(ctx context.Context) (*Catalog, error) {
	s.calls++
	return s.catalog, s.err
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(t *testing.T, mw func(http.Handler) http.Handler, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(shared.ContextWithRole(req.Context(), role))
	}
	rr := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(rr, req)
	return rr
}

func TestRequireAnyUsesInheritance(t *testing.T) {
	m := Middleware{Resolver: NewResolver(nil, nil, nil)}
	mw := m.RequireAny(" view_analytics ", "admin_analytics")

	require.Equal(t, http.StatusNoContent, serve(t, mw, "managed_artist").Code)
	require.Equal(t, http.StatusForbidden, serve(t, mw, "fan").Code)
	require.Equal(t, http.StatusForbidden, serve(t, mw, "ghost").Code)
	require.Equal(t, http.StatusForbidden, serve(t, mw, "").Code)
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	m := Middleware{Resolver: NewResolver(nil, nil, nil)}
	mw := m.RequireAll(PermViewUserManagement, PermAdminUserManagement)

	require.Equal(t, http.StatusNoContent, serve(t, mw, "superadmin").Code)
	require.Equal(t, http.StatusForbidden, serve(t, mw, "admin").Code)
}

func TestRequireUsesCatalogSource(t *testing.T) {
	source := &staticSource{catalog: DefaultCatalog().Merge(Role{Name: "booker", Permissions: []string{"create_bookings"}})}
	m := Middleware{Resolver: NewResolver(nil, nil, nil), Catalogs: source}

	require.Equal(t, http.StatusNoContent, serve(t, m.RequireAny("create_bookings"), "booker").Code)
	require.Equal(t, 1, source.calls)
}

func TestRequireCatalogErrorIsInternal(t *testing.T) {
	source := &staticSource{err: errors.New("redis down")}
	m := Middleware{Resolver: NewResolver(nil, nil, nil), Catalogs: source}

	rr := serve(t, m.RequireAny("view_content"), "fan")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "redis")
}

func TestRequireWithoutPermissionsPassesThrough(t *testing.T) {
	m := Middleware{Resolver: NewResolver(nil, nil, nil)}
	require.Equal(t, http.StatusNoContent, serve(t, m.RequireAny(" ", ""), "").Code)
}

func TestRequireRole(t *testing.T) {
	m := Middleware{}
	require.Equal(t, http.StatusForbidden, serve(t, m.RequireRole(), "").Code)
	require.Equal(t, http.StatusNoContent, serve(t, m.RequireRole(), "ghost").Code)
}

func TestRequireMatchesPermissionIDsExactly(t *testing.T) {
	m := Middleware{Resolver: NewResolver(nil, nil, nil)}

	require.Equal(t, http.StatusForbidden, serve(t, m.RequireAny("View_Content"), "fan").Code)
	require.Equal(t, http.StatusNoContent, serve(t, m.RequireAny("view_content"), "fan").Code)
}

func TestNormalizePermissions(t *testing.T) {
	require.Equal(t, []string{"a", "b", "B"}, normalizePermissions([]string{" a", "b", "a ", "", "B"}))
}
