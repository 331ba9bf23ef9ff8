package timeentry

import (
	"context"
	"database/sql"
	"time"

	"oklok/internal/tenant"

	"gorm.io/gorm"
)

// ListFilter narrows List; nil/zero fields are ignored. Date bounds are
// inclusive and compared against entry_date.
type ListFilter struct {
	UserID     string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     string
	IsApproved *bool
}

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, e *TimeEntry) error
	Update(ctx context.Context, e *TimeEntry) error
	FindActiveByUser(ctx context.Context, tenantID, userID string) (*TimeEntry, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*TimeEntry, error)
	List(ctx context.Context, tenantID string, f ListFilter) ([]TimeEntry, error)
	InsertBreak(ctx context.Context, b *BreakInterval) error
	UpdateBreak(ctx context.Context, b *BreakInterval) error
	FindOpenBreak(ctx context.Context, entryID string) (*BreakInterval, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Insert(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) FindActiveByUser(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		Where("status = ?", StatusActive).
		Preload("Breaks").
		First(&e).Error
	return &e, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("Breaks").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) List(ctx context.Context, tenantID string, f ListFilter) ([]TimeEntry, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("Breaks")

	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.StartDate != nil {
		q = q.Where("entry_date >= ?", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		q = q.Where("entry_date <= ?", f.EndDate.Format("2006-01-02"))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.IsApproved != nil {
		q = q.Where("is_approved = ?", *f.IsApproved)
	}

	var rows []TimeEntry
	err := q.Order("clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) InsertBreak(ctx context.Context, b *BreakInterval) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) UpdateBreak(ctx context.Context, b *BreakInterval) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) FindOpenBreak(ctx context.Context, entryID string) (*BreakInterval, error) {
	var b BreakInterval
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Where("end_at IS NULL").
		First(&b).Error
	return &b, err
}
