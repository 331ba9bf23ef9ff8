package timeentry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"oklok/internal/events"
	"oklok/internal/messaging/kafka"
	"oklok/internal/tenant"
	timeentryerrors "oklok/internal/timeentry/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, tenantID, userID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, tenantID, userID string, req ClockOutRequest) (TimeEntryResponse, error)
	StartBreak(ctx context.Context, tenantID, userID string) (TimeEntryResponse, error)
	EndBreak(ctx context.Context, tenantID, userID string) (TimeEntryResponse, error)
	List(ctx context.Context, tenantID, actorID string, canReadAll bool, f ListEntriesFilter) ([]TimeEntryResponse, error)
	Approve(ctx context.Context, tenantID, approverID, id string) (TimeEntryResponse, error)
	Cancel(ctx context.Context, tenantID, id string) (TimeEntryResponse, error)
	AdminUpdate(ctx context.Context, tenantID, id string, req UpdateEntryRequest) (TimeEntryResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	tenants tenant.Service
	outbox  kafka.OutboxRepository
	now     func() time.Time
}

func NewService(db *sql.DB, repo Repository, tenants tenant.Service) Service {
	return &service{db: db, repo: repo, tenants: tenants, now: func() time.Time { return time.Now().UTC() }}
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, tenants tenant.Service, outbox kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, tenants: tenants, outbox: outbox, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) ClockIn(ctx context.Context, tenantID, userID string, req ClockInRequest) (TimeEntryResponse, error) {
	org, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return TimeEntryResponse{}, err
	}

	if org.Settings.Location.Enforced && (req.Location == nil || *req.Location == "") {
		return TimeEntryResponse{}, timeentryerrors.ErrLocationRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	existing, err := qtx.FindActiveByUser(ctx, tenantID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}
	if err == nil && existing != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryAlreadyActive
	}

	row := &TimeEntry{
		ID:        uuid.New(),
		TenantID:  uuid.MustParse(tenantID),
		UserID:    uuid.MustParse(userID),
		EntryDate: calendarDay(now, org.Timezone),
		ClockIn:   now,
		Status:    StatusActive,
		Location:  req.Location,
		Notes:     req.Notes,
	}

	// The unique constraint on active entries is the real guard; a
	// racing insert from a second device surfaces here as a conflict.
	if err := qtx.Insert(ctx, row); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, tenantID, userID string, req ClockOutRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	row, err := qtx.FindActiveByUser(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	// A break left open is closed at the clock-out instant.
	for i := range row.Breaks {
		if row.Breaks[i].EndAt == nil {
			end := now
			row.Breaks[i].EndAt = &end
			if err := qtx.UpdateBreak(ctx, &row.Breaks[i]); err != nil {
				return TimeEntryResponse{}, err
			}
		}
	}

	row.ClockOut = &now
	total := workedHours(row.ClockIn, now, row.Breaks)
	row.TotalHours = &total
	row.Status = StatusCompleted
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		if err := s.stageCompletedEvent(ctx, tx, row); err != nil {
			return TimeEntryResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) StartBreak(ctx context.Context, tenantID, userID string) (TimeEntryResponse, error) {
	org, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	if !org.Settings.Breaks.Enabled {
		return TimeEntryResponse{}, timeentryerrors.ErrBreaksDisabled
	}

	row, err := s.repo.FindActiveByUser(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	for i := range row.Breaks {
		if row.Breaks[i].EndAt == nil {
			return TimeEntryResponse{}, timeentryerrors.ErrBreakAlreadyOpen
		}
	}

	b := &BreakInterval{
		ID:      uuid.New(),
		EntryID: row.ID,
		StartAt: s.now(),
	}
	if err := s.repo.InsertBreak(ctx, b); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}

	row.Breaks = append(row.Breaks, *b)
	return mapToResponse(*row), nil
}

func (s *service) EndBreak(ctx context.Context, tenantID, userID string) (TimeEntryResponse, error) {
	row, err := s.repo.FindActiveByUser(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	open, err := s.repo.FindOpenBreak(ctx, row.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoOpenBreak
		}
		return TimeEntryResponse{}, err
	}

	end := s.now()
	open.EndAt = &end
	if err := s.repo.UpdateBreak(ctx, open); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}

	for i := range row.Breaks {
		if row.Breaks[i].ID == open.ID {
			row.Breaks[i] = *open
		}
	}
	return mapToResponse(*row), nil
}

func (s *service) List(ctx context.Context, tenantID, actorID string, canReadAll bool, f ListEntriesFilter) ([]TimeEntryResponse, error) {
	filter, err := buildListFilter(f)
	if err != nil {
		return nil, err
	}

	// Staff and contractors only ever see their own records.
	if !canReadAll {
		if _, err := uuid.Parse(actorID); err != nil {
			return nil, timeentryerrors.ErrInvalidEntryID
		}
		filter.UserID = actorID
	}

	rows, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	res := make([]TimeEntryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) Approve(ctx context.Context, tenantID, approverID, id string) (TimeEntryResponse, error) {
	row, err := s.findByID(ctx, tenantID, id)
	if err != nil {
		return TimeEntryResponse{}, err
	}

	if row.Status != StatusCompleted {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryNotCompleted
	}

	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEntryID
	}

	row.IsApproved = true
	row.ApprovedBy = &approverUUID

	if err := s.repo.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

// Cancel marks the entry cancelled instead of deleting it; the ledger
// is an audit trail and rows never disappear.
func (s *service) Cancel(ctx context.Context, tenantID, id string) (TimeEntryResponse, error) {
	row, err := s.findByID(ctx, tenantID, id)
	if err != nil {
		return TimeEntryResponse{}, err
	}

	if row.Status == StatusCancelled {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryCancelled
	}

	row.Status = StatusCancelled
	row.IsApproved = false
	row.ApprovedBy = nil

	if err := s.repo.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) AdminUpdate(ctx context.Context, tenantID, id string, req UpdateEntryRequest) (TimeEntryResponse, error) {
	row, err := s.findByID(ctx, tenantID, id)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	if row.Status == StatusCancelled {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryCancelled
	}

	if req.ClockIn != nil {
		t, err := time.Parse(time.RFC3339, *req.ClockIn)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeRange
		}
		row.ClockIn = t.UTC()
	}
	if req.ClockOut != nil {
		t, err := time.Parse(time.RFC3339, *req.ClockOut)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeRange
		}
		out := t.UTC()
		row.ClockOut = &out
		row.Status = StatusCompleted
	}
	if req.Location != nil {
		row.Location = req.Location
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if row.ClockOut != nil {
		if !row.ClockOut.After(row.ClockIn) {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeRange
		}
		total := workedHours(row.ClockIn, *row.ClockOut, row.Breaks)
		row.TotalHours = &total
	}

	// An edit invalidates any prior approval.
	row.IsApproved = false
	row.ApprovedBy = nil

	if err := s.repo.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) findByID(ctx context.Context, tenantID, id string) (*TimeEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, timeentryerrors.ErrInvalidEntryID
	}
	row, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return row, nil
}

func (s *service) stageCompletedEvent(ctx context.Context, tx *sql.Tx, row *TimeEntry) error {
	event := events.EntryCompletedEvent{
		EventType:  "entry.completed",
		EntryID:    row.ID.String(),
		UserID:     row.UserID.String(),
		TenantID:   row.TenantID.String(),
		EntryDate:  row.EntryDate.Format("2006-01-02"),
		TotalHours: *row.TotalHours,
		OccurredAt: *row.ClockOut,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "time_entry",
		AggregateID:   event.EntryID,
		EventType:     event.EventType,
		Topic:         events.EntryCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// workedHours is (clockOut - clockIn) minus recorded breaks, in hours,
// rounded to two decimals and never negative.
func workedHours(clockIn, clockOut time.Time, breaks []BreakInterval) float64 {
	worked := clockOut.Sub(clockIn)
	for _, b := range breaks {
		if b.EndAt != nil && b.EndAt.After(b.StartAt) {
			worked -= b.EndAt.Sub(b.StartAt)
		}
	}
	if worked < 0 {
		worked = 0
	}
	return math.Round(worked.Hours()*100) / 100
}

// calendarDay resolves the entry's calendar day in the tenant timezone,
// falling back to UTC for unknown zone names.
func calendarDay(now time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func buildListFilter(f ListEntriesFilter) (ListFilter, error) {
	filter := ListFilter{
		UserID:     f.UserID,
		Status:     f.Status,
		IsApproved: f.IsApproved,
	}
	if f.StartDate != "" {
		t, err := time.Parse("2006-01-02", f.StartDate)
		if err != nil {
			return ListFilter{}, timeentryerrors.ErrInvalidTimeRange
		}
		filter.StartDate = &t
	}
	if f.EndDate != "" {
		t, err := time.Parse("2006-01-02", f.EndDate)
		if err != nil {
			return ListFilter{}, timeentryerrors.ErrInvalidTimeRange
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:         e.ID.String(),
		TenantID:   e.TenantID.String(),
		UserID:     e.UserID.String(),
		EntryDate:  e.EntryDate.Format("2006-01-02"),
		ClockIn:    e.ClockIn.Format(time.RFC3339),
		TotalHours: e.TotalHours,
		Status:     e.Status,
		Location:   e.Location,
		Notes:      e.Notes,
		IsApproved: e.IsApproved,
	}
	if e.ClockOut != nil {
		v := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	for _, b := range e.Breaks {
		br := BreakResponse{
			ID:      b.ID.String(),
			StartAt: b.StartAt.Format(time.RFC3339),
		}
		if b.EndAt != nil {
			v := b.EndAt.Format(time.RFC3339)
			br.EndAt = &v
		}
		resp.Breaks = append(resp.Breaks, br)
	}
	return resp
}
