package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog wraps every catalog invariant violation.
var ErrInvalidCatalog = errors.New("rbac: invalid catalog")

// Catalog is an immutable, ordered snapshot of role definitions.
// Lookups by name return the first role carrying that name.
type Catalog struct {
	roles []Role
	index map[string]int
}

// NewCatalog copies roles into a new catalog snapshot.
func NewCatalog(roles ...Role) *Catalog {
	c := &Catalog{
		roles: make([]Role, 0, len(roles)),
		index: make(map[string]int, len(roles)),
	}
	for _, role := range roles {
		c.roles = append(c.roles, role.clone())
		if _, exists := c.index[role.Name]; !exists {
			c.index[role.Name] = len(c.roles) - 1
		}
	}
	return c
}

// Merge returns a new catalog holding c's roles followed by extra.
func (c *Catalog) Merge(extra ...Role) *Catalog {
	return NewCatalog(append(c.Roles(), extra...)...)
}

// Lookup returns the role named name.
func (c *Catalog) Lookup(name string) (Role, bool) {
	if c == nil {
		return Role{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Role{}, false
	}
	return c.roles[i].clone(), true
}

// Roles returns a copy of the catalog contents in order.
func (c *Catalog) Roles() []Role {
	if c == nil {
		return nil
	}
	out := make([]Role, len(c.roles))
	for i, role := range c.roles {
		out[i] = role.clone()
	}
	return out
}

// Len returns the number of roles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.roles)
}

// Children returns the names of roles inheriting directly from name.
func (c *Catalog) Children(name string) []string {
	var out []string
	if c == nil {
		return out
	}
	for _, role := range c.roles {
		if role.InheritFrom == name {
			out = append(out, role.Name)
		}
	}
	return out
}

// Validate checks the catalog invariants: unique non-empty names, known
// parents, an acyclic inheritance forest and, when permissions is not nil,
// known permission ids. All violations are joined into one error.
func (c *Catalog) Validate(permissions []Permission) error {
	if c == nil {
		return nil
	}
	var errs []error
	known := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		known[p.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(c.roles))
	for _, role := range c.roles {
		name := strings.TrimSpace(role.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: role %q has empty name", ErrInvalidCatalog, role.ID))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, name))
		}
		seen[name] = struct{}{}
		if role.HasParent() {
			if role.InheritFrom == role.Name {
				errs = append(errs, fmt.Errorf("%w: role %q inherits from itself", ErrInvalidCatalog, name))
			} else if _, ok := c.index[role.InheritFrom]; !ok {
				errs = append(errs, fmt.Errorf("%w: role %q inherits from unknown role %q", ErrInvalidCatalog, name, role.InheritFrom))
			}
		}
		if permissions != nil {
			for _, p := range role.Permissions {
				if _, ok := known[p]; !ok {
					errs = append(errs, fmt.Errorf("%w: role %q grants unknown permission %q", ErrInvalidCatalog, name, p))
				}
			}
		}
	}
	for _, name := range c.cycles() {
		errs = append(errs, fmt.Errorf("%w: inheritance cycle through role %q", ErrInvalidCatalog, name))
	}
	return errors.Join(errs...)
}

// cycles returns, once per cycle, the first role at which a walk from some
// role revisits a name. Self-inheritance is reported by Validate directly.
func (c *Catalog) cycles() []string {
	var out []string
	reported := make(map[string]struct{})
	for _, start := range c.roles {
		visited := map[string]struct{}{start.Name: {}}
		role := start
		for role.HasParent() && role.InheritFrom != role.Name {
			parent, ok := c.Lookup(role.InheritFrom)
			if !ok {
				break
			}
			if _, loop := visited[parent.Name]; loop {
				if _, done := reported[parent.Name]; !done && parent.Name == start.Name {
					out = append(out, parent.Name)
					for name := range visited {
						reported[name] = struct{}{}
					}
				}
				break
			}
			visited[parent.Name] = struct{}{}
			role = parent
		}
	}
	return out
}
