package tenant_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"oklok/internal/tenant"
	tenanterrors "oklok/internal/tenant/errors"
	tenantMock "oklok/internal/tenant/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	service   tenant.Service
	repo      *tenantMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	dbRedis, redisMock := redismock.NewClientMock()
	repo := tenantMock.NewMockRepository(ctrl)

	return &serviceDeps{
		service:   tenant.NewService(repo, dbRedis),
		repo:      repo,
		redismock: redisMock,
	}
}

func testTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:       uuid.New(),
		Name:     "Demo Coffee Co",
		Timezone: "America/New_York",
		Currency: "USD",
		Settings: tenant.DefaultSettings(),
		IsActive: true,
	}
}

func TestService_Get_CacheMissThenHit(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	row := testTenant()
	cacheKey := fmt.Sprintf("tenants:detail:%s", row.ID.String())

	deps.redismock.ExpectGet(cacheKey).RedisNil()
	deps.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil).Times(1)
	deps.redismock.Regexp().ExpectSet(cacheKey, `.*`, 30*time.Minute).SetVal("OK")

	resp, err := deps.service.Get(ctx, row.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "America/New_York", resp.Timezone)
	assert.Equal(t, 8.0, resp.Settings.WorkHours.DailyOvertimeThreshold)

	// Second read is served entirely from cache.
	cached, _ := json.Marshal(resp)
	deps.redismock.ExpectGet(cacheKey).SetVal(string(cached))

	again, err := deps.service.Get(ctx, row.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, resp, again)

	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestService_Get_NotFound(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	id := uuid.New().String()
	deps.redismock.ExpectGet(fmt.Sprintf("tenants:detail:%s", id)).RedisNil()
	deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.Get(ctx, id)
	assert.ErrorIs(t, err, tenanterrors.ErrTenantNotFound)

	_, err = deps.service.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, tenanterrors.ErrInvalidTenantID)
}

func TestService_UpdateSettings(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	row := testTenant()
	cacheKey := fmt.Sprintf("tenants:detail:%s", row.ID.String())

	deps.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil)
	deps.repo.EXPECT().Update(ctx, row).Return(nil)
	deps.redismock.ExpectDel(cacheKey).SetVal(1)

	resp, err := deps.service.UpdateSettings(ctx, row.ID.String(), tenant.UpdateSettingsRequest{
		Timezone:  "Europe/London",
		WorkHours: &tenant.WorkHourPolicy{DailyOvertimeThreshold: 10, WeeklyOvertimeThreshold: 45},
		Breaks:    &tenant.BreakPolicy{Enabled: true, DeductMinutes: 30},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Europe/London", resp.Timezone)
	assert.Equal(t, 10.0, resp.Settings.WorkHours.DailyOvertimeThreshold)
	assert.True(t, resp.Settings.Breaks.Enabled)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestService_UpdateSettings_InvalidTimezone(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	row := testTenant()
	deps.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil)

	_, err := deps.service.UpdateSettings(ctx, row.ID.String(), tenant.UpdateSettingsRequest{
		Timezone: "Mars/Olympus_Mons",
	})
	assert.ErrorIs(t, err, tenanterrors.ErrInvalidTimezone)
	assert.Equal(t, "America/New_York", row.Timezone)
}
