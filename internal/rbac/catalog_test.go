package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	require.Equal(t, 10, catalog.Len())
	require.Len(t, DefaultPermissions(), 34)
	require.Len(t, DefaultSections(), 13)
	require.NoError(t, catalog.Validate(DefaultPermissions()))

	for _, p := range DefaultPermissions() {
		require.Truef(t, p.Category.Valid(), "permission %s category", p.ID)
		require.Truef(t, p.Level.Valid(), "permission %s level", p.ID)
	}
	for _, s := range DefaultSections() {
		require.Truef(t, s.Category.Valid(), "section %s category", s.ID)
	}
	for _, r := range catalog.Roles() {
		require.True(t, r.IsDefault)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	catalog := NewCatalog(
		Role{ID: "blank"},
		Role{Name: "dup"},
		Role{Name: "dup"},
		Role{Name: "self", InheritFrom: "self"},
		Role{Name: "orphan", InheritFrom: "missing"},
		Role{Name: "grants", Permissions: []string{"view_content", "made_up"}},
		Role{Name: "loop_a", InheritFrom: "loop_b"},
		Role{Name: "loop_b", InheritFrom: "loop_a"},
	)

	err := catalog.Validate(DefaultPermissions())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidCatalog))
	msg := err.Error()
	require.Contains(t, msg, `role "blank" has empty name`)
	require.Contains(t, msg, `duplicate role "dup"`)
	require.Contains(t, msg, `role "self" inherits from itself`)
	require.Contains(t, msg, `role "orphan" inherits from unknown role "missing"`)
	require.Contains(t, msg, `role "grants" grants unknown permission "made_up"`)
	require.Contains(t, msg, `inheritance cycle through role "loop_a"`)
	require.NotContains(t, msg, `inheritance cycle through role "loop_b"`)
}

func TestValidateSkipsPermissionCheckWithoutList(t *testing.T) {
	catalog := NewCatalog(Role{Name: "r", Permissions: []string{"anything"}})
	require.NoError(t, catalog.Validate(nil))
	require.Error(t, catalog.Validate([]Permission{}))
}

func TestValidateDetectsLongCycleOnce(t *testing.T) {
	catalog := NewCatalog(
		Role{Name: "a", InheritFrom: "b"},
		Role{Name: "b", InheritFrom: "c"},
		Role{Name: "c", InheritFrom: "a"},
		Role{Name: "tail", InheritFrom: "a"},
	)
	require.Equal(t, []string{"a"}, catalog.cycles())
}

func TestCatalogLookupFirstNameWins(t *testing.T) {
	catalog := NewCatalog(
		Role{Name: "fan", Permissions: []string{"first"}},
		Role{Name: "fan", Permissions: []string{"second"}},
	)
	role, ok := catalog.Lookup("fan")
	require.True(t, ok)
	require.Equal(t, []string{"first"}, role.Permissions)
	require.Equal(t, 2, catalog.Len())
}

func TestCatalogIsImmutable(t *testing.T) {
	perms := []string{"view_content"}
	catalog := NewCatalog(Role{Name: "fan", Permissions: perms})
	perms[0] = "changed"

	role, _ := catalog.Lookup("fan")
	require.Equal(t, []string{"view_content"}, role.Permissions)

	role.Permissions[0] = "mutated"
	again, _ := catalog.Lookup("fan")
	require.Equal(t, []string{"view_content"}, again.Permissions)

	roles := catalog.Roles()
	roles[0].Name = "renamed"
	_, ok := catalog.Lookup("fan")
	require.True(t, ok)
}

func TestCatalogMergeAndChildren(t *testing.T) {
	merged := DefaultCatalog().Merge(
		Role{Name: "tour_manager", InheritFrom: "professional"},
		Role{Name: "fan", Permissions: []string{"shadow"}},
	)
	require.Equal(t, 12, merged.Len())
	fan, _ := merged.Lookup("fan")
	require.NotContains(t, fan.Permissions, "shadow")

	require.ElementsMatch(t, []string{"managed_professional", "tour_manager"}, merged.Children("professional"))
	require.Empty(t, merged.Children("superadmin"))
	require.Equal(t, 10, DefaultCatalog().Len())
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var catalog *Catalog
	_, ok := catalog.Lookup("fan")
	require.False(t, ok)
	require.Zero(t, catalog.Len())
	require.Nil(t, catalog.Roles())
	require.Empty(t, catalog.Children("fan"))
	require.NoError(t, catalog.Validate(nil))
}

func TestPermissionSetHelpers(t *testing.T) {
	set := NewPermissionSet("b", "a")
	require.True(t, set.HasAny("x", "a"))
	require.False(t, set.HasAny())
	require.True(t, set.HasAll())
	require.False(t, set.HasAll("a", "x"))

	set.Union(NewPermissionSet("c"))
	require.Equal(t, []string{"a", "b", "c"}, set.Sorted())
}
