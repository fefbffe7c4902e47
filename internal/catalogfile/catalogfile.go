// Package catalogfile reads role catalogs from YAML documents so operators can
// check a catalog before loading it into the store.
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waitumusic/waitumusic/internal/rbac"
)

// File is the decoded document. Empty sections fall back to the built-in
// registries when IncludeDefaults is set.
type File struct {
	IncludeDefaults bool                    `yaml:"include_defaults"`
	Permissions     []rbac.Permission       `yaml:"-"`
	Roles           []rbac.Role             `yaml:"-"`
	Sections        []rbac.DashboardSection `yaml:"-"`
}

type document struct {
	IncludeDefaults bool              `yaml:"include_defaults"`
	Permissions     []permissionEntry `yaml:"permissions"`
	Roles           []roleEntry       `yaml:"roles"`
	Sections        []sectionEntry    `yaml:"sections"`
}

type permissionEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Level       string `yaml:"level"`
}

type roleEntry struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
	InheritFrom string   `yaml:"inherit_from"`
}

type sectionEntry struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	Icon                string   `yaml:"icon"`
	Component           string   `yaml:"component"`
	RequiredPermissions []string `yaml:"required_permissions"`
	Category            string   `yaml:"category"`
	Order               int      `yaml:"order"`
}

// ErrInvalidDocument is returned for documents with unknown enum values.
var ErrInvalidDocument = errors.New("catalogfile: invalid document")

// Open reads and decodes the file at path.
func Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("catalogfile: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML catalog document.
func Decode(r io.Reader) (File, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("catalogfile: decode: %w", err)
	}

	out := File{IncludeDefaults: doc.IncludeDefaults}
	var errs []error
	for _, p := range doc.Permissions {
		perm := rbac.Permission{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    rbac.Category(p.Category),
			Level:       rbac.Level(p.Level),
		}
		if !perm.Category.Valid() {
			errs = append(errs, fmt.Errorf("%w: permission %q has unknown category %q", ErrInvalidDocument, p.ID, p.Category))
		}
		if !perm.Level.Valid() {
			errs = append(errs, fmt.Errorf("%w: permission %q has unknown level %q", ErrInvalidDocument, p.ID, p.Level))
		}
		out.Permissions = append(out.Permissions, perm)
	}
	for _, r := range doc.Roles {
		out.Roles = append(out.Roles, rbac.Role{
			ID:          r.Name,
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Description: r.Description,
			Permissions: r.Permissions,
			InheritFrom: r.InheritFrom,
		})
	}
	for _, s := range doc.Sections {
		section := rbac.DashboardSection{
			ID:                  s.ID,
			Name:                s.Name,
			Icon:                s.Icon,
			Component:           s.Component,
			RequiredPermissions: s.RequiredPermissions,
			Category:            rbac.Category(s.Category),
			Order:               s.Order,
		}
		if !section.Category.Valid() {
			errs = append(errs, fmt.Errorf("%w: section %q has unknown category %q", ErrInvalidDocument, s.ID, s.Category))
		}
		out.Sections = append(out.Sections, section)
	}
	if err := errors.Join(errs...); err != nil {
		return File{}, err
	}
	return out, nil
}

// Catalog builds the role catalog described by the file. Built-in roles come
// first when IncludeDefaults is set, so they win name collisions.
func (f File) Catalog() *rbac.Catalog {
	var roles []rbac.Role
	if f.IncludeDefaults {
		roles = append(roles, rbac.DefaultRoles()...)
	}
	roles = append(roles, f.Roles...)
	return rbac.NewCatalog(roles...)
}

// PermissionList returns the declared permissions, plus the built-in ones when
// IncludeDefaults is set. A nil result disables permission id checks.
func (f File) PermissionList() []rbac.Permission {
	if f.IncludeDefaults {
		return append(rbac.DefaultPermissions(), f.Permissions...)
	}
	if len(f.Permissions) == 0 {
		return nil
	}
	return f.Permissions
}

// SectionList returns the declared sections, or the built-in registry when
// none are declared and IncludeDefaults is set.
func (f File) SectionList() []rbac.DashboardSection {
	if len(f.Sections) == 0 && f.IncludeDefaults {
		return rbac.DefaultSections()
	}
	return f.Sections
}
