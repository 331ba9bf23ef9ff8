package tenant

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tenant_repo.go -destination=mock/tenant_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	FindByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Tenant, error) {
	var t Tenant
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) Update(ctx context.Context, t *Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}
