package timeentry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"oklok/internal/messaging/kafka"
	"oklok/internal/tenant"
	timeentryerrors "oklok/internal/timeentry/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn           func(tx *sql.Tx) Repository
	insertFn           func(ctx context.Context, e *TimeEntry) error
	updateFn           func(ctx context.Context, e *TimeEntry) error
	findActiveByUserFn func(ctx context.Context, tenantID, userID string) (*TimeEntry, error)
	findByIDFn         func(ctx context.Context, tenantID, id string) (*TimeEntry, error)
	listFn             func(ctx context.Context, tenantID string, f ListFilter) ([]TimeEntry, error)
	insertBreakFn      func(ctx context.Context, b *BreakInterval) error
	updateBreakFn      func(ctx context.Context, b *BreakInterval) error
	findOpenBreakFn    func(ctx context.Context, entryID string) (*BreakInterval, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Insert(ctx context.Context, e *TimeEntry) error {
	return f.insertFn(ctx, e)
}
func (f *fakeRepo) Update(ctx context.Context, e *TimeEntry) error {
	return f.updateFn(ctx, e)
}
func (f *fakeRepo) FindActiveByUser(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
	return f.findActiveByUserFn(ctx, tenantID, userID)
}
func (f *fakeRepo) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
	return f.findByIDFn(ctx, tenantID, id)
}
func (f *fakeRepo) List(ctx context.Context, tenantID string, fl ListFilter) ([]TimeEntry, error) {
	return f.listFn(ctx, tenantID, fl)
}
func (f *fakeRepo) InsertBreak(ctx context.Context, b *BreakInterval) error {
	return f.insertBreakFn(ctx, b)
}
func (f *fakeRepo) UpdateBreak(ctx context.Context, b *BreakInterval) error {
	return f.updateBreakFn(ctx, b)
}
func (f *fakeRepo) FindOpenBreak(ctx context.Context, entryID string) (*BreakInterval, error) {
	return f.findOpenBreakFn(ctx, entryID)
}

type fakeTenants struct {
	settings tenant.Settings
	timezone string
}

func (f *fakeTenants) Get(ctx context.Context, tenantID string) (tenant.TenantResponse, error) {
	tz := f.timezone
	if tz == "" {
		tz = "UTC"
	}
	return tenant.TenantResponse{ID: tenantID, Timezone: tz, Settings: f.settings}, nil
}

func (f *fakeTenants) UpdateSettings(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error) {
	return tenant.TenantResponse{}, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error               { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func newRepoFake() *fakeRepo {
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.insertFn = func(ctx context.Context, e *TimeEntry) error { return nil }
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error { return nil }
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.findByIDFn = func(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.listFn = func(ctx context.Context, tenantID string, f ListFilter) ([]TimeEntry, error) {
		return nil, nil
	}
	repo.insertBreakFn = func(ctx context.Context, b *BreakInterval) error { return nil }
	repo.updateBreakFn = func(ctx context.Context, b *BreakInterval) error { return nil }
	repo.findOpenBreakFn = func(ctx context.Context, entryID string) (*BreakInterval, error) {
		return nil, gorm.ErrRecordNotFound
	}
	return repo
}

func TestService_ClockInAndClockOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tenantID := uuid.New().String()
	userID := uuid.New().String()
	ctx := context.Background()

	var saved TimeEntry
	repo := newRepoFake()
	repo.insertFn = func(ctx context.Context, e *TimeEntry) error { saved = *e; return nil }
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error { saved = *e; return nil }
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		return &saved, nil
	}

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, &fakeTenants{}).(*service)
	svc.now = func() time.Time { return start }

	mock.ExpectBegin()
	mock.ExpectCommit()
	inResp, err := svc.ClockIn(ctx, tenantID, userID, ClockInRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, inResp.Status)
	assert.Equal(t, "2025-03-10", inResp.EntryDate)

	svc.now = func() time.Time { return start.Add(3*time.Hour + 30*time.Minute) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.ClockOut(ctx, tenantID, userID, ClockOutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, outResp.Status)
	assert.NotNil(t, outResp.ClockOut)
	if assert.NotNil(t, outResp.TotalHours) {
		assert.Equal(t, 3.5, *outResp.TotalHours)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tenantID := uuid.New().String()
	userID := uuid.New().String()
	ctx := context.Background()

	inserted := false
	repo := newRepoFake()
	repo.insertFn = func(ctx context.Context, e *TimeEntry) error { inserted = true; return nil }
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &TimeEntry{ID: uuid.New(), Status: StatusActive}, nil
	}

	svc := NewService(db, repo, &fakeTenants{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(ctx, tenantID, userID, ClockInRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryAlreadyActive)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_RacingInsertMapsToConflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newRepoFake()
	repo.insertFn = func(ctx context.Context, e *TimeEntry) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entries_active"}
	}

	svc := NewService(db, repo, &fakeTenants{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(context.Background(), uuid.New().String(), uuid.New().String(), ClockInRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryAlreadyActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_LocationRequired(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	tenants := &fakeTenants{settings: tenant.Settings{Location: tenant.LocationPolicy{Enforced: true}}}
	svc := NewService(db, newRepoFake(), tenants)

	_, err := svc.ClockIn(context.Background(), uuid.New().String(), uuid.New().String(), ClockInRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrLocationRequired)

	loc := "front-desk"
	_, err = svc.ClockIn(context.Background(), uuid.New().String(), uuid.New().String(), ClockInRequest{Location: &loc})
	assert.NotErrorIs(t, err, timeentryerrors.ErrLocationRequired)
}

func TestService_ClockOut_NoActiveEntry(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newRepoFake(), &fakeTenants{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockOut(context.Background(), uuid.New().String(), uuid.New().String(), ClockOutRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrNoActiveEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_SubtractsBreaksAndClosesOpenOnes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	closedEnd := start.Add(90 * time.Minute)

	active := TimeEntry{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		UserID:    uuid.New(),
		EntryDate: start,
		ClockIn:   start,
		Status:    StatusActive,
		Breaks: []BreakInterval{
			{ID: uuid.New(), StartAt: start.Add(time.Hour), EndAt: &closedEnd},
			{ID: uuid.New(), StartAt: start.Add(7 * time.Hour)},
		},
	}

	var closedBreaks []BreakInterval
	repo := newRepoFake()
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &active, nil
	}
	repo.updateBreakFn = func(ctx context.Context, b *BreakInterval) error {
		closedBreaks = append(closedBreaks, *b)
		return nil
	}

	svc := NewService(db, repo, &fakeTenants{}).(*service)
	svc.now = func() time.Time { return end }

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockOut(context.Background(), active.TenantID.String(), active.UserID.String(), ClockOutRequest{})
	assert.NoError(t, err)

	// Open break ran from T+7h to clock-out, so 30m closed + 60m open
	// leaves 6.5 worked hours.
	if assert.NotNil(t, resp.TotalHours) {
		assert.Equal(t, 6.5, *resp.TotalHours)
	}
	if assert.Len(t, closedBreaks, 1) {
		assert.NotNil(t, closedBreaks[0].EndAt)
		assert.Equal(t, end, *closedBreaks[0].EndAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_StagesCompletedEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	active := TimeEntry{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		UserID:    uuid.New(),
		EntryDate: start,
		ClockIn:   start,
		Status:    StatusActive,
	}

	repo := newRepoFake()
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &active, nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, &fakeTenants{}, outbox).(*service)
	svc.now = func() time.Time { return start.Add(4 * time.Hour) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.ClockOut(context.Background(), active.TenantID.String(), active.UserID.String(), ClockOutRequest{})
	assert.NoError(t, err)

	if assert.Len(t, outbox.created, 1) {
		staged := outbox.created[0]
		assert.Equal(t, "time.entry.lifecycle.v1", staged.Topic)
		assert.Equal(t, "entry.completed", staged.EventType)
		assert.Equal(t, active.ID.String(), staged.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, staged.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_StartBreak_Disabled(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newRepoFake(), &fakeTenants{})

	_, err := svc.StartBreak(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, timeentryerrors.ErrBreaksDisabled)
}

func TestService_StartBreak_AlreadyOpen(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	active := TimeEntry{
		ID:      uuid.New(),
		ClockIn: time.Now().UTC(),
		Status:  StatusActive,
		Breaks:  []BreakInterval{{ID: uuid.New(), StartAt: time.Now().UTC()}},
	}
	repo := newRepoFake()
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &active, nil
	}

	tenants := &fakeTenants{settings: tenant.Settings{Breaks: tenant.BreakPolicy{Enabled: true}}}
	svc := NewService(db, repo, tenants)

	_, err := svc.StartBreak(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, timeentryerrors.ErrBreakAlreadyOpen)
}

func TestService_StartBreak_RacingInsertMapsToConflict(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	// Two devices race past the open-break read; the partial unique
	// index rejects the second insert and the 23505 maps to the same
	// conflict the pre-check reports.
	active := TimeEntry{
		ID:      uuid.New(),
		ClockIn: time.Now().UTC(),
		Status:  StatusActive,
	}
	repo := newRepoFake()
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &active, nil
	}
	repo.insertBreakFn = func(ctx context.Context, b *BreakInterval) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entry_breaks_open"}
	}

	tenants := &fakeTenants{settings: tenant.Settings{Breaks: tenant.BreakPolicy{Enabled: true}}}
	svc := NewService(db, repo, tenants)

	_, err := svc.StartBreak(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, timeentryerrors.ErrBreakAlreadyOpen)
}

func TestService_BreakRoundTrip(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	active := TimeEntry{
		ID:      uuid.New(),
		ClockIn: time.Now().UTC(),
		Status:  StatusActive,
	}

	var openBreak *BreakInterval
	repo := newRepoFake()
	repo.findActiveByUserFn = func(ctx context.Context, tenantID, userID string) (*TimeEntry, error) {
		return &active, nil
	}
	repo.insertBreakFn = func(ctx context.Context, b *BreakInterval) error {
		openBreak = b
		return nil
	}
	repo.findOpenBreakFn = func(ctx context.Context, entryID string) (*BreakInterval, error) {
		if openBreak == nil || openBreak.EndAt != nil {
			return nil, gorm.ErrRecordNotFound
		}
		return openBreak, nil
	}

	tenants := &fakeTenants{settings: tenant.Settings{Breaks: tenant.BreakPolicy{Enabled: true}}}
	svc := NewService(db, repo, tenants)
	ctx := context.Background()
	tenantID := uuid.New().String()
	userID := uuid.New().String()

	_, err := svc.EndBreak(ctx, tenantID, userID)
	assert.ErrorIs(t, err, timeentryerrors.ErrNoOpenBreak)

	resp, err := svc.StartBreak(ctx, tenantID, userID)
	assert.NoError(t, err)
	assert.Len(t, resp.Breaks, 1)
	assert.Nil(t, resp.Breaks[0].EndAt)

	resp, err = svc.EndBreak(ctx, tenantID, userID)
	assert.NoError(t, err)
	assert.NotNil(t, openBreak.EndAt)
}

func TestService_List_ScopesToActorWithoutReadAll(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	actorID := uuid.New().String()
	otherID := uuid.New().String()

	var gotFilter ListFilter
	repo := newRepoFake()
	repo.listFn = func(ctx context.Context, tenantID string, f ListFilter) ([]TimeEntry, error) {
		gotFilter = f
		return nil, nil
	}

	svc := NewService(db, repo, &fakeTenants{})

	// A staff request for someone else's records is silently narrowed
	// down to their own.
	_, err := svc.List(context.Background(), uuid.New().String(), actorID, false, ListEntriesFilter{UserID: otherID})
	assert.NoError(t, err)
	assert.Equal(t, actorID, gotFilter.UserID)

	_, err = svc.List(context.Background(), uuid.New().String(), actorID, true, ListEntriesFilter{UserID: otherID})
	assert.NoError(t, err)
	assert.Equal(t, otherID, gotFilter.UserID)
}

func TestService_Approve_RequiresCompleted(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	entry := TimeEntry{ID: uuid.New(), Status: StatusActive, ClockIn: time.Now().UTC()}
	repo := newRepoFake()
	repo.findByIDFn = func(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
		return &entry, nil
	}

	svc := NewService(db, repo, &fakeTenants{})

	_, err := svc.Approve(context.Background(), uuid.New().String(), uuid.New().String(), entry.ID.String())
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryNotCompleted)

	entry.Status = StatusCompleted
	approverID := uuid.New().String()
	resp, err := svc.Approve(context.Background(), uuid.New().String(), approverID, entry.ID.String())
	assert.NoError(t, err)
	assert.True(t, resp.IsApproved)
}

func TestService_Cancel_KeepsRow(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	entry := TimeEntry{ID: uuid.New(), Status: StatusCompleted, ClockIn: time.Now().UTC(), IsApproved: true}
	var updated *TimeEntry
	repo := newRepoFake()
	repo.findByIDFn = func(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
		return &entry, nil
	}
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error {
		updated = e
		return nil
	}

	svc := NewService(db, repo, &fakeTenants{})

	resp, err := svc.Cancel(context.Background(), uuid.New().String(), entry.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
	assert.False(t, resp.IsApproved)
	assert.NotNil(t, updated)

	_, err = svc.Cancel(context.Background(), uuid.New().String(), entry.ID.String())
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryCancelled)
}

func TestService_AdminUpdate_RecomputesAndClearsApproval(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)
	entry := TimeEntry{
		ID:         uuid.New(),
		EntryDate:  start,
		ClockIn:    start,
		ClockOut:   &end,
		Status:     StatusCompleted,
		IsApproved: true,
	}
	repo := newRepoFake()
	repo.findByIDFn = func(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
		return &entry, nil
	}

	svc := NewService(db, repo, &fakeTenants{})

	newOut := start.Add(7 * time.Hour).Format(time.RFC3339)
	resp, err := svc.AdminUpdate(context.Background(), uuid.New().String(), entry.ID.String(), UpdateEntryRequest{ClockOut: &newOut})
	assert.NoError(t, err)
	if assert.NotNil(t, resp.TotalHours) {
		assert.Equal(t, 7.0, *resp.TotalHours)
	}
	assert.False(t, resp.IsApproved)

	badOut := start.Add(-time.Hour).Format(time.RFC3339)
	_, err = svc.AdminUpdate(context.Background(), uuid.New().String(), entry.ID.String(), UpdateEntryRequest{ClockOut: &badOut})
	assert.ErrorIs(t, err, timeentryerrors.ErrInvalidTimeRange)
}

func TestWorkedHours(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	breakEnd := start.Add(4*time.Hour + 45*time.Minute)

	assert.Equal(t, 8.0, workedHours(start, start.Add(8*time.Hour), nil))
	assert.Equal(t, 7.75, workedHours(start, start.Add(8*time.Hour), []BreakInterval{
		{StartAt: start.Add(4 * time.Hour), EndAt: &breakEnd},
	}))
	assert.Equal(t, 0.0, workedHours(start, start.Add(-time.Hour), nil))
}

func TestCalendarDay(t *testing.T) {
	// 02:30 UTC on March 11 is still March 10 in New York.
	now := time.Date(2025, 3, 11, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-10", calendarDay(now, "America/New_York").Format("2006-01-02"))
	assert.Equal(t, "2025-03-11", calendarDay(now, "UTC").Format("2006-01-02"))
	assert.Equal(t, "2025-03-11", calendarDay(now, "not/a-zone").Format("2006-01-02"))
}
