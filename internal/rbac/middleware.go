package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/waitumusic/waitumusic/internal/platform/httpx"
	"github.com/waitumusic/waitumusic/internal/shared"
)

// CatalogSource supplies the current catalog snapshot.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*Catalog, error)
}

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Resolver *Resolver
	Catalogs CatalogSource
	Logger   *slog.Logger
}

// RequireAny ensures the current role has at least one of the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return m.require(normalized, func(role string, catalog *Catalog) bool {
		for _, p := range normalized {
			if m.Resolver.HasPermission(role, p, catalog) {
				return true
			}
		}
		return false
	})
}

// RequireAll ensures the current role has all required permissions.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return m.require(normalized, func(role string, catalog *Catalog) bool {
		return m.Resolver.EffectivePermissions(role, catalog).HasAll(normalized...)
	})
}

// RequireRole ensures the current request carries an identified role.
func (m Middleware) RequireRole() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := shared.RoleFromContext(r.Context()); !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) require(normalized []string, allowed func(role string, catalog *Catalog) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := shared.RoleFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role required")
				return
			}
			catalog, err := m.snapshot(r.Context())
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac load catalog", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if allowed(role, catalog) {
				next.ServeHTTP(w, r)
				return
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
		})
	}
}

// snapshot returns nil when no source is configured so the resolver falls
// back to its default catalog.
func (m Middleware) snapshot(ctx context.Context) (*Catalog, error) {
	if m.Catalogs == nil {
		return nil, nil
	}
	return m.Catalogs.Snapshot(ctx)
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	normalized := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := unique[p]; ok {
			continue
		}
		unique[p] = struct{}{}
		normalized = append(normalized, p)
	}
	return normalized
}
