package timeentry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// TimeEntry is one ledger row. The partial unique index on user_id
// closes the two-device clock-in race at the storage layer: a second
// concurrent insert with status=active fails with 23505 regardless of
// how many server instances share the database.
type TimeEntry struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:uq_time_entries_active,where:status = 'active'"`
	EntryDate  time.Time       `gorm:"column:entry_date;type:date;not null;index"`
	ClockIn    time.Time       `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut   *time.Time      `gorm:"column:clock_out;type:timestamptz"`
	TotalHours *float64        `gorm:"column:total_hours"`
	Status     string          `gorm:"column:status;type:varchar(20);not null;default:active"`
	Location   *string         `gorm:"column:location;type:varchar(255)"`
	Notes      *string         `gorm:"column:notes;type:text"`
	IsApproved bool            `gorm:"column:is_approved;not null;default:false"`
	ApprovedBy *uuid.UUID      `gorm:"column:approved_by;type:uuid"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"column:deleted_at;index"`
	Breaks     []BreakInterval `gorm:"foreignKey:EntryID;references:ID"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// BreakInterval is a sub-interval inside an active entry; its duration
// is subtracted from the entry's worked hours at clock-out. The partial
// unique index on entry_id guards the open-break check the same way
// uq_time_entries_active guards clock-in: a second concurrent insert
// with a NULL end_at fails with 23505.
type BreakInterval struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID   uuid.UUID  `gorm:"column:entry_id;type:uuid;not null;index;uniqueIndex:uq_time_entry_breaks_open,where:end_at IS NULL"`
	StartAt   time.Time  `gorm:"column:start_at;type:timestamptz;not null"`
	EndAt     *time.Time `gorm:"column:end_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (BreakInterval) TableName() string {
	return "time_entry_breaks"
}
