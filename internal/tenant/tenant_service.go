package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tenanterrors "oklok/internal/tenant/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const settingsCachePrefix = "tenants:detail:"

func settingsCacheKey(tenantID string) string {
	return settingsCachePrefix + tenantID
}

//go:generate mockgen -source=tenant_service.go -destination=mock/tenant_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, tenantID string) (TenantResponse, error)
	UpdateSettings(ctx context.Context, tenantID string, req UpdateSettingsRequest) (TenantResponse, error)
}

type service struct {
	repo Repository
	rdb  *redis.Client
	sf   *singleflight.Group
}

func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}}
}

// Get is the hot read path: every clock-in resolves the tenant timezone
// and policies through here, so results are served from Redis and DB
// lookups are collapsed with singleflight.
func (s *service) Get(ctx context.Context, tenantID string) (TenantResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return TenantResponse{}, tenanterrors.ErrInvalidTenantID
	}

	cacheKey := settingsCacheKey(tenantID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp TenantResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		t, err := s.repo.FindByID(ctx, tenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return TenantResponse{}, tenanterrors.ErrTenantNotFound
			}
			return TenantResponse{}, err
		}

		resp := mapToResponse(*t)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return TenantResponse{}, err
	}

	return v.(TenantResponse), nil
}

func (s *service) UpdateSettings(ctx context.Context, tenantID string, req UpdateSettingsRequest) (TenantResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return TenantResponse{}, tenanterrors.ErrInvalidTenantID
	}

	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TenantResponse{}, tenanterrors.ErrTenantNotFound
		}
		return TenantResponse{}, err
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return TenantResponse{}, tenanterrors.ErrInvalidTimezone
		}
		t.Timezone = req.Timezone
	}
	if req.Currency != "" {
		t.Currency = req.Currency
	}
	if req.WorkHours != nil {
		t.Settings.WorkHours = *req.WorkHours
	}
	if req.Breaks != nil {
		t.Settings.Breaks = *req.Breaks
	}
	if req.Location != nil {
		t.Settings.Location = *req.Location
	}
	if req.Approval != nil {
		t.Settings.Approval = *req.Approval
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return TenantResponse{}, err
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, settingsCacheKey(tenantID))
	}

	return mapToResponse(*t), nil
}

func mapToResponse(t Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		BusinessType: t.BusinessType,
		Timezone:     t.Timezone,
		Currency:     t.Currency,
		Settings:     t.Settings,
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		IsActive:     t.IsActive,
	}
}
