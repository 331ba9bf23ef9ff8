package user

import (
	"context"

	"oklok/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*User, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]User, error)
	FindAllActive(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindAllActive backs quick PIN login, which has no tenant scope yet.
func (r *repository) FindAllActive(ctx context.Context) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
