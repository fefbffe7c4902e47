package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/waitumusic/waitumusic/internal/rbac"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const snapshotKey = "catalog"

// RepositoryPort defines data access methods for custom roles.
type RepositoryPort interface {
	ListCustomRoles(ctx context.Context) ([]CustomRole, error)
	GetCustomRole(ctx context.Context, name string) (CustomRole, error)
	CreateCustomRole(ctx context.Context, role CustomRole) (CustomRole, error)
	UpdateCustomRole(ctx context.Context, role CustomRole) (CustomRole, error)
	DeleteCustomRole(ctx context.Context, name string) error
}

// SnapshotCache caches the custom role list between requests.
type SnapshotCache interface {
	Version(ctx context.Context) (int64, error)
	Load(ctx context.Context) ([]CustomRole, int64, bool, error)
	Store(ctx context.Context, version int64, roles []CustomRole) error
	Bump(ctx context.Context) error
}

// WarmupEnqueuer schedules an asynchronous cache warmup.
type WarmupEnqueuer interface {
	EnqueueCatalogWarmup(ctx context.Context) error
}

// ServiceConfig groups the optional collaborators of Service.
type ServiceConfig struct {
	Cache       SnapshotCache
	Enqueuer    WarmupEnqueuer
	Logger      *slog.Logger
	Defaults    []rbac.Role
	Permissions []rbac.Permission
}

// Service handles custom role business logic and builds catalog snapshots.
type Service struct {
	repo        RepositoryPort
	cache       SnapshotCache
	enqueuer    WarmupEnqueuer
	logger      *slog.Logger
	defaults    []rbac.Role
	permissions []rbac.Permission
	validate    *validator.Validate
	group       singleflight.Group
}

// NewService builds Service instance. Empty defaults fall back to the
// built-in roles and permissions.
func NewService(repo RepositoryPort, cfg ServiceConfig) *Service {
	v := validator.New()
	// The tag name is static, registration cannot fail.
	_ = v.RegisterValidation("rolename", func(fl validator.FieldLevel) bool {
		return roleNamePattern.MatchString(fl.Field().String())
	})
	if cfg.Defaults == nil {
		cfg.Defaults = rbac.DefaultRoles()
	}
	if cfg.Permissions == nil {
		cfg.Permissions = rbac.DefaultPermissions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		cache:       cfg.Cache,
		enqueuer:    cfg.Enqueuer,
		logger:      logger,
		defaults:    cfg.Defaults,
		permissions: cfg.Permissions,
		validate:    v,
	}
}

// Permissions returns the permission catalog.
func (s *Service) Permissions() []rbac.Permission {
	return append([]rbac.Permission(nil), s.permissions...)
}

// ListCustomRoles returns all custom roles straight from the repository.
func (s *Service) ListCustomRoles(ctx context.Context) ([]CustomRole, error) {
	return s.repo.ListCustomRoles(ctx)
}

// GetCustomRole fetches a custom role by name.
func (s *Service) GetCustomRole(ctx context.Context, name string) (CustomRole, error) {
	return s.repo.GetCustomRole(ctx, strings.TrimSpace(name))
}

// Snapshot returns defaults merged with custom roles. Concurrent callers
// share a single load.
func (s *Service) Snapshot(ctx context.Context) (*rbac.Catalog, error) {
	ch := s.group.DoChan(snapshotKey, func() (interface{}, error) {
		return s.loadCustomRoles(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return s.catalogWith(res.Val.([]CustomRole)), nil
	}
}

// Warm reloads custom roles from the repository into the cache.
func (s *Service) Warm(ctx context.Context) (int, error) {
	var ver int64
	if s.cache != nil {
		v, err := s.cache.Version(ctx)
		if err != nil {
			return 0, err
		}
		ver = v
	}
	customs, err := s.repo.ListCustomRoles(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Store(ctx, ver, customs); err != nil {
			return 0, err
		}
	}
	return len(customs), nil
}

// loadCustomRoles reads the version before listing, so a Bump that lands
// mid-list leaves the refill under the superseded version.
func (s *Service) loadCustomRoles(ctx context.Context) ([]CustomRole, error) {
	var (
		ver       int64
		cacheable bool
	)
	if s.cache != nil {
		customs, v, ok, err := s.cache.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn("roles cache load", slog.Any("error", err))
		case ok:
			return customs, nil
		default:
			ver, cacheable = v, true
		}
	}
	customs, err := s.repo.ListCustomRoles(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.Store(ctx, ver, customs); err != nil {
			s.logger.Warn("roles cache store", slog.Any("error", err))
		}
	}
	return customs, nil
}

// CreateCustomRole validates and persists a new custom role.
func (s *Service) CreateCustomRole(ctx context.Context, input CreateInput) (CustomRole, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Description = strings.TrimSpace(input.Description)
	input.InheritFrom = strings.TrimSpace(input.InheritFrom)
	input.Permissions = normalizeIDs(input.Permissions)
	if err := s.validateStruct(input); err != nil {
		return CustomRole{}, err
	}
	if s.isDefault(input.Name) {
		return CustomRole{}, ErrProtectedRole
	}
	customs, err := s.repo.ListCustomRoles(ctx)
	if err != nil {
		return CustomRole{}, err
	}
	for _, existing := range customs {
		if existing.Name == input.Name {
			return CustomRole{}, ErrDuplicate
		}
	}
	role := CustomRole{
		ID:          uuid.New(),
		Name:        input.Name,
		DisplayName: input.DisplayName,
		Description: input.Description,
		Permissions: input.Permissions,
		InheritFrom: input.InheritFrom,
	}
	if err := s.validateCatalog(append(customs, role)); err != nil {
		return CustomRole{}, err
	}
	created, err := s.repo.CreateCustomRole(ctx, role)
	if err != nil {
		return CustomRole{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateCustomRole replaces the mutable fields of a custom role.
func (s *Service) UpdateCustomRole(ctx context.Context, name string, input UpdateInput) (CustomRole, error) {
	name = strings.TrimSpace(name)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Description = strings.TrimSpace(input.Description)
	input.InheritFrom = strings.TrimSpace(input.InheritFrom)
	input.Permissions = normalizeIDs(input.Permissions)
	if err := s.validateStruct(input); err != nil {
		return CustomRole{}, err
	}
	if s.isDefault(name) {
		return CustomRole{}, ErrProtectedRole
	}
	customs, err := s.repo.ListCustomRoles(ctx)
	if err != nil {
		return CustomRole{}, err
	}
	idx := -1
	for i, existing := range customs {
		if existing.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CustomRole{}, ErrNotFound
	}
	role := customs[idx]
	role.DisplayName = input.DisplayName
	role.Description = input.Description
	role.Permissions = input.Permissions
	role.InheritFrom = input.InheritFrom
	customs[idx] = role
	if err := s.validateCatalog(customs); err != nil {
		return CustomRole{}, err
	}
	updated, err := s.repo.UpdateCustomRole(ctx, role)
	if err != nil {
		return CustomRole{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteCustomRole removes a custom role that no other role inherits from.
func (s *Service) DeleteCustomRole(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if s.isDefault(name) {
		return ErrProtectedRole
	}
	customs, err := s.repo.ListCustomRoles(ctx)
	if err != nil {
		return err
	}
	if children := s.catalogWith(customs).Children(name); len(children) > 0 {
		return fmt.Errorf("%w: %s", ErrRoleInUse, strings.Join(children, ", "))
	}
	if err := s.repo.DeleteCustomRole(ctx, name); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) catalogWith(customs []CustomRole) *rbac.Catalog {
	roles := make([]rbac.Role, 0, len(s.defaults)+len(customs))
	roles = append(roles, s.defaults...)
	for _, c := range customs {
		roles = append(roles, c.ToRole())
	}
	return rbac.NewCatalog(roles...)
}

func (s *Service) validateCatalog(customs []CustomRole) error {
	if err := s.catalogWith(customs).Validate(s.permissions); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

func (s *Service) validateStruct(input any) error {
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func (s *Service) isDefault(name string) bool {
	for _, role := range s.defaults {
		if role.Name == name {
			return true
		}
	}
	return false
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("roles cache bump", slog.Any("error", err))
		}
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueCatalogWarmup(ctx); err != nil {
			s.logger.Warn("roles enqueue warmup", slog.Any("error", err))
		}
	}
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
