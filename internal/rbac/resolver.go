package rbac

import (
	"log/slog"
	"sort"
)

// DiagnosticKind classifies a non-fatal resolution problem.
type DiagnosticKind string

const (
	// DiagnosticRoleNotFound means a role name was absent from the catalog.
	DiagnosticRoleNotFound DiagnosticKind = "role_not_found"
	// DiagnosticCyclicInheritance means an inheritFrom chain revisited a role.
	DiagnosticCyclicInheritance DiagnosticKind = "cyclic_inheritance"
)

// Diagnostic describes a resolution problem. It is never returned to callers
// of the resolver; it only flows to the logger and the observer.
type Diagnostic struct {
	Kind DiagnosticKind
	Role string
}

// Observer receives diagnostics, e.g. to feed metrics.
type Observer func(Diagnostic)

// Resolver computes effective permissions over catalog snapshots.
// It keeps no state between calls and is safe for concurrent use.
type Resolver struct {
	fallback *Catalog
	logger   *slog.Logger
	observe  Observer
}

// NewResolver builds a Resolver. fallback is used whenever a call passes a
// nil catalog; logger and observe may be nil.
func NewResolver(fallback *Catalog, logger *slog.Logger, observe Observer) *Resolver {
	if fallback == nil {
		fallback = DefaultCatalog()
	}
	return &Resolver{fallback: fallback, logger: logger, observe: observe}
}

// HasPermission reports whether role holds permission directly or through
// its inheritance chain. Unknown roles and cycles yield false.
func (r *Resolver) HasPermission(role, permission string, catalog *Catalog) bool {
	return r.hasPermission(role, permission, r.catalog(catalog), make(map[string]struct{}))
}

func (r *Resolver) hasPermission(name, permission string, catalog *Catalog, visited map[string]struct{}) bool {
	role, ok := catalog.Lookup(name)
	if !ok {
		r.report(DiagnosticRoleNotFound, name)
		return false
	}
	if _, seen := visited[name]; seen {
		r.report(DiagnosticCyclicInheritance, name)
		return false
	}
	visited[name] = struct{}{}

	if role.Grants(permission) {
		return true
	}
	if role.HasParent() {
		return r.hasPermission(role.InheritFrom, permission, catalog, visited)
	}
	return false
}

// EffectivePermissions returns the union of role's direct permissions and
// those of every ancestor. Unknown roles yield an empty set; a cycle anywhere
// in the chain yields an empty set.
func (r *Resolver) EffectivePermissions(role string, catalog *Catalog) PermissionSet {
	set, ok := r.effective(role, r.catalog(catalog), make(map[string]struct{}))
	if !ok {
		return PermissionSet{}
	}
	return set
}

// effective returns false only when a cycle was detected.
func (r *Resolver) effective(name string, catalog *Catalog, visited map[string]struct{}) (PermissionSet, bool) {
	role, ok := catalog.Lookup(name)
	if !ok {
		r.report(DiagnosticRoleNotFound, name)
		return PermissionSet{}, true
	}
	if _, seen := visited[name]; seen {
		r.report(DiagnosticCyclicInheritance, name)
		return nil, false
	}
	visited[name] = struct{}{}

	set := NewPermissionSet(role.Permissions...)
	if role.HasParent() {
		inherited, ok := r.effective(role.InheritFrom, catalog, visited)
		if !ok {
			return nil, false
		}
		set.Union(inherited)
	}
	return set, true
}

// AvailableSections filters registry to the sections role may see. A section
// is visible when any of its required permissions is held. The result is
// stably sorted by Order.
func (r *Resolver) AvailableSections(role string, registry []DashboardSection, catalog *Catalog) []DashboardSection {
	granted := r.EffectivePermissions(role, catalog)
	out := make([]DashboardSection, 0, len(registry))
	for _, section := range registry {
		if granted.HasAny(section.RequiredPermissions...) {
			out = append(out, section)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// PermissionsByCategory returns the entries of permissions in category that
// role holds, in the order of permissions.
func (r *Resolver) PermissionsByCategory(role string, category Category, permissions []Permission, catalog *Catalog) []Permission {
	granted := r.EffectivePermissions(role, catalog)
	var out []Permission
	for _, p := range permissions {
		if p.Category == category && granted.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Resolver) catalog(c *Catalog) *Catalog {
	if c == nil {
		return r.fallback
	}
	return c
}

func (r *Resolver) report(kind DiagnosticKind, role string) {
	if r.logger != nil {
		switch kind {
		case DiagnosticCyclicInheritance:
			r.logger.Error("rbac circular role inheritance", slog.String("role", role))
		default:
			r.logger.Warn("rbac role not found", slog.String("role", role))
		}
	}
	if r.observe != nil {
		r.observe(Diagnostic{Kind: kind, Role: role})
	}
}
