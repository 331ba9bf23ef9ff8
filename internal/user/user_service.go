package user

import (
	"context"
	"net/http"

	"oklok/internal/shared/apperror"
	usererrors "oklok/internal/user/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]UserResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (UserResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, tenantID, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateUserRequest) (UserResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Failed to hash PIN", http.StatusInternalServerError)
	}

	u := &User{
		ID:       uuid.New(),
		TenantID: tenantUUID,
		Name:     req.Name,
		Email:    req.Email,
		PINHash:  string(hashed),
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]UserResponse, error) {
	rows, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]UserResponse, len(rows))
	for i, u := range rows {
		res[i] = mapToResponse(u)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Role != "" {
		u.Role = req.Role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

// Deactivate clears the active flag. Users are never hard-deleted so
// their ledger entries keep a valid owner reference.
func (s *service) Deactivate(ctx context.Context, tenantID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		TenantID: u.TenantID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
