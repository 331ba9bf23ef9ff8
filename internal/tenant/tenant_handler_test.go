package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oklok/internal/tenant"
	tenanterrors "oklok/internal/tenant/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	getFn            func(ctx context.Context, tenantID string) (tenant.TenantResponse, error)
	updateSettingsFn func(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error)
}

func (f *fakeService) Get(ctx context.Context, tenantID string) (tenant.TenantResponse, error) {
	return f.getFn(ctx, tenantID)
}
func (f *fakeService) UpdateSettings(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error) {
	return f.updateSettingsFn(ctx, tenantID, req)
}

func TestHandler_GetCurrent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantID := uuid.New().String()

	svc := &fakeService{
		getFn: func(ctx context.Context, tid string) (tenant.TenantResponse, error) {
			assert.Equal(t, tenantID, tid)
			return tenant.TenantResponse{ID: tid, Name: "Demo Coffee Co", Timezone: "UTC"}, nil
		},
	}

	h := tenant.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("tenant_id", tenantID)
	c.Request = httptest.NewRequest(http.MethodGet, "/tenants/me", nil)
	h.GetCurrent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo Coffee Co")
}

func TestHandler_UpdateSettings_InvalidTimezone(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		updateSettingsFn: func(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error) {
			return tenant.TenantResponse{}, tenanterrors.ErrInvalidTimezone
		},
	}

	h := tenant.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("tenant_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPut, "/tenants/me/settings",
		strings.NewReader(`{"timezone":"Mars/Olympus_Mons"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.UpdateSettings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "timezone")
}
