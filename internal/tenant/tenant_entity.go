package tenant

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `gorm:"type:varchar(150);not null"`
	BusinessType string         `gorm:"type:varchar(50)"`
	Timezone     string         `gorm:"type:varchar(64);not null;default:'UTC'"`
	Currency     string         `gorm:"type:varchar(3);not null;default:'USD'"`
	Settings     Settings       `gorm:"type:jsonb;not null;default:'{}'"`
	ContactEmail string         `gorm:"type:varchar(255)"`
	ContactPhone string         `gorm:"type:varchar(50)"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time      `gorm:"not null;default:now()"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type WorkHourPolicy struct {
	DailyOvertimeThreshold  float64 `json:"daily_overtime_threshold"`
	WeeklyOvertimeThreshold float64 `json:"weekly_overtime_threshold"`
}

type BreakPolicy struct {
	Enabled       bool `json:"enabled"`
	DeductMinutes int  `json:"deduct_minutes"`
}

type LocationPolicy struct {
	Enforced bool `json:"enforced"`
}

type ApprovalPolicy struct {
	RequireApproval bool `json:"require_approval"`
}

type Settings struct {
	WorkHours WorkHourPolicy `json:"work_hours"`
	Breaks    BreakPolicy    `json:"breaks"`
	Location  LocationPolicy `json:"location"`
	Approval  ApprovalPolicy `json:"approval"`
}

// DefaultSettings matches the documented fallbacks: 8h/day and 40h/week
// overtime thresholds, breaks and location enforcement off.
func DefaultSettings() Settings {
	return Settings{
		WorkHours: WorkHourPolicy{
			DailyOvertimeThreshold:  8,
			WeeklyOvertimeThreshold: 40,
		},
	}
}

func (s Settings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Settings) Scan(value interface{}) error {
	if value == nil {
		*s = DefaultSettings()
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for tenant settings")
	}
}
