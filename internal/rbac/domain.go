package rbac

import (
	"sort"
	"strings"
)

// Category groups permissions by functional area.
type Category string

// Permission categories.
const (
	CategoryManagement Category = "management"
	CategoryBooking    Category = "booking"
	CategoryContent    Category = "content"
	CategoryAnalytics  Category = "analytics"
	CategorySystem     Category = "system"
	CategoryMarketing  Category = "marketing"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryManagement, CategoryBooking, CategoryContent, CategoryAnalytics, CategorySystem, CategoryMarketing:
		return true
	}
	return false
}

// Level is informational only; an admin level never implies lower levels.
type Level string

// Permission levels.
const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelAdmin Level = "admin"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelRead, LevelWrite, LevelAdmin:
		return true
	}
	return false
}

// Permission represents an atomic capability.
type Permission struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Level       Level    `json:"level"`
}

// Role represents a named bundle of permissions with an optional parent.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	IsDefault   bool     `json:"isDefault"`
	Permissions []string `json:"permissions"`
	InheritFrom string   `json:"inheritFrom,omitempty"`
}

// Grants reports whether the role lists permission directly.
func (r Role) Grants(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasParent reports whether the role inherits from another role.
func (r Role) HasParent() bool {
	return strings.TrimSpace(r.InheritFrom) != ""
}

func (r Role) clone() Role {
	out := r
	out.Permissions = append([]string(nil), r.Permissions...)
	return out
}

// DashboardSection maps a UI area to the permissions that unlock it.
type DashboardSection struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Icon                string   `json:"icon"`
	Component           string   `json:"component"`
	RequiredPermissions []string `json:"requiredPermissions"`
	Category            Category `json:"category"`
	Order               int      `json:"order"`
}

// PermissionSet is a deduplicated collection of permission ids.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from ids.
func NewPermissionSet(ids ...string) PermissionSet {
	set := make(PermissionSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s PermissionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// HasAny reports whether at least one id is in the set.
func (s PermissionSet) HasAny(ids ...string) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// HasAll reports whether every id is in the set. An empty list is satisfied.
func (s PermissionSet) HasAll(ids ...string) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Union adds every member of other to s.
func (s PermissionSet) Union(other PermissionSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the members in lexical order.
func (s PermissionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
