// Package roles manages the user_roles lookup table. Role names are free text
// and are not bound to users.role at the data layer.
package roles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/internal/repo"
	"github.com/rowdysden/rowdysden-backend/pkg/db"
	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

// RoleInput is the body of POST /add-role and PUT /update-role/{id}.
type RoleInput struct {
	Name string `json:"name" validate:"required,notblank,max=64"`
}

// RoleDTO is the API view of a role.
type RoleDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromModel(m *models.UserRole) RoleDTO {
	return RoleDTO{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// Repository persists roles.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, role *models.UserRole) error {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	return r.DB(ctx).Create(role).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.DB(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repository) List(ctx context.Context) ([]models.UserRole, error) {
	var roles []models.UserRole
	err := r.DB(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *Repository) Update(ctx context.Context, role *models.UserRole) error {
	return r.DB(ctx).Save(role).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteByID(ctx, &models.UserRole{}, id)
}

// Service exposes role CRUD.
type Service interface {
	Create(ctx context.Context, name string) (*RoleDTO, error)
	List(ctx context.Context) ([]RoleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleDTO, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*RoleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, name string) (*RoleDTO, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	role := &models.UserRole{Name: clean}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, mapWriteError(err, "create role")
	}
	dto := fromModel(role)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]RoleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}
	out := make([]RoleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := fromModel(role)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, name string) (*RoleDTO, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = clean
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, mapWriteError(err, "update role")
	}
	dto := fromModel(role)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "role id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "role not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete role")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.UserRole, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role id is required")
	}
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "role not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	return role, nil
}

func normalizeName(name string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	if clean == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "role name is required")
	}
	return clean, nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "role already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
