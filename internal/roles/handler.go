package roles

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/waitumusic/waitumusic/internal/platform/httpx"
	"github.com/waitumusic/waitumusic/internal/rbac"
	"github.com/waitumusic/waitumusic/internal/shared"
)

// Handler exposes the role catalog and resolution queries over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	resolver *rbac.Resolver
	sections []rbac.DashboardSection
	authz    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, resolver *rbac.Resolver, sections []rbac.DashboardSection, authz rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, resolver: resolver, sections: sections, authz: authz}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(rbac.PermViewUserManagement))
		r.Get("/", h.listRoles)
		r.Get("/{name}", h.getRole)
		r.Get("/{name}/permissions", h.roleEffectivePermissions)
		r.Get("/{name}/permissions/{permission}", h.roleHasPermission)
		r.Get("/{name}/sections", h.roleSections)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(rbac.PermAdminUserManagement))
		r.Post("/", h.createRole)
		r.Put("/{name}", h.updateRole)
		r.Delete("/{name}", h.deleteRole)
	})
}

// MountSelfRoutes registers routes answering for the caller's own role.
func (h *Handler) MountSelfRoutes(r chi.Router) {
	r.Use(h.authz.RequireRole())
	r.Get("/permissions", h.selfPermissions)
	r.Get("/sections", h.selfSections)
}

// ListPermissions writes the permission catalog.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Permissions())
}

type effectivePermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type permissionCheckResponse struct {
	Role       string `json:"role"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

type sectionsResponse struct {
	Role     string                  `json:"role"`
	Sections []rbac.DashboardSection `json:"sections"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "list roles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, catalog.Roles())
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "get role", err)
		return
	}
	role, ok := catalog.Lookup(roleParam(r))
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) roleEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	name := roleParam(r)
	catalog, ok := h.catalogWithRole(w, r, name)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, effectivePermissionsResponse{
		Role:        name,
		Permissions: h.resolver.EffectivePermissions(name, catalog).Sorted(),
	})
}

func (h *Handler) roleHasPermission(w http.ResponseWriter, r *http.Request) {
	name := roleParam(r)
	permission := chi.URLParam(r, "permission")
	catalog, ok := h.catalogWithRole(w, r, name)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, permissionCheckResponse{
		Role:       name,
		Permission: permission,
		Granted:    h.resolver.HasPermission(name, permission, catalog),
	})
}

func (h *Handler) roleSections(w http.ResponseWriter, r *http.Request) {
	name := roleParam(r)
	catalog, ok := h.catalogWithRole(w, r, name)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, sectionsResponse{
		Role:     name,
		Sections: h.resolver.AvailableSections(name, h.sections, catalog),
	})
}

func (h *Handler) selfPermissions(w http.ResponseWriter, r *http.Request) {
	role, _ := shared.RoleFromContext(r.Context())
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "self permissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, effectivePermissionsResponse{
		Role:        role,
		Permissions: h.resolver.EffectivePermissions(role, catalog).Sorted(),
	})
}

func (h *Handler) selfSections(w http.ResponseWriter, r *http.Request) {
	role, _ := shared.RoleFromContext(r.Context())
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "self sections", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sectionsResponse{
		Role:     role,
		Sections: h.resolver.AvailableSections(role, h.sections, catalog),
	})
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	role, err := h.service.CreateCustomRole(r.Context(), input)
	if err != nil {
		h.fail(w, "create role", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	role, err := h.service.UpdateCustomRole(r.Context(), roleParam(r), input)
	if err != nil {
		h.fail(w, "update role", err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomRole(r.Context(), roleParam(r)); err != nil {
		h.fail(w, "delete role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// catalogWithRole loads the snapshot and answers 404 when name is absent, so
// resolution endpoints distinguish unknown roles from roles without grants.
func (h *Handler) catalogWithRole(w http.ResponseWriter, r *http.Request, name string) (*rbac.Catalog, bool) {
	catalog, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "load catalog", err)
		return nil, false
	}
	if _, ok := catalog.Lookup(name); !ok {
		httpx.RespondError(w, ErrNotFound)
		return nil, false
	}
	return catalog, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func roleParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "name"))
}
