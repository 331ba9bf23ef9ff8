package report

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"oklok/internal/tenant"
	"oklok/internal/timeentry"
	"oklok/internal/user"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const dashboardCachePrefix = "reports:dashboard:"

func dashboardCacheKey(tenantID string) string {
	return dashboardCachePrefix + tenantID
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	WeeklyReport(ctx context.Context, tenantID string, weekStart time.Time) ([]WeeklyReportRow, error)
	DashboardStats(ctx context.Context, tenantID string) (DashboardStats, error)
	InvalidateDashboard(ctx context.Context, tenantID string)
	PayrollRows(ctx context.Context, tenantID string, f ExportFilter) ([]PayrollRow, error)
}

type service struct {
	entries timeentry.Repository
	users   user.Repository
	tenants tenant.Service
	rdb     *redis.Client
	sf      *singleflight.Group
	now     func() time.Time
}

func NewService(entries timeentry.Repository, users user.Repository, tenants tenant.Service, rdb *redis.Client) Service {
	return &service{
		entries: entries,
		users:   users,
		tenants: tenants,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WeeklyReport sums completed hours per user for the seven days from
// weekStart, split into regular and overtime by the tenant thresholds.
// A zero weekStart means the current week, starting on the Monday of
// the tenant-local today.
func (s *service) WeeklyReport(ctx context.Context, tenantID string, weekStart time.Time) ([]WeeklyReportRow, error) {
	org, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if weekStart.IsZero() {
		weekStart = startOfWeek(tenantToday(s.now(), org.Timezone))
	}
	weekStart = weekStart.Truncate(24 * time.Hour)
	weekEnd := weekStart.AddDate(0, 0, 6)

	status := timeentry.StatusCompleted
	rows, err := s.entries.List(ctx, tenantID, timeentry.ListFilter{
		StartDate: &weekStart,
		EndDate:   &weekEnd,
		Status:    status,
	})
	if err != nil {
		return nil, err
	}

	names, err := s.userNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	perUser := map[string][]timeentry.TimeEntry{}
	for _, e := range rows {
		uid := e.UserID.String()
		perUser[uid] = append(perUser[uid], e)
	}

	userIDs := make([]string, 0, len(perUser))
	for uid := range perUser {
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)

	report := make([]WeeklyReportRow, 0, len(userIDs))
	for _, uid := range userIDs {
		regular, overtime := splitOvertime(perUser[uid], org.Settings.WorkHours)
		report = append(report, WeeklyReportRow{
			UserID:        uid,
			UserName:      names[uid],
			WeekStart:     weekStart.Format("2006-01-02"),
			RegularHours:  regular,
			OvertimeHours: overtime,
			TotalHours:    round2(regular + overtime),
		})
	}

	return report, nil
}

func (s *service) DashboardStats(ctx context.Context, tenantID string) (DashboardStats, error) {
	cacheKey := dashboardCacheKey(tenantID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		stats, err := s.computeDashboard(ctx, tenantID)
		if err != nil {
			return DashboardStats{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(stats); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 5*time.Minute)
			}
		}
		return stats, nil
	})
	if err != nil {
		return DashboardStats{}, err
	}
	return v.(DashboardStats), nil
}

func (s *service) InvalidateDashboard(ctx context.Context, tenantID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, dashboardCacheKey(tenantID))
	}
}

func (s *service) computeDashboard(ctx context.Context, tenantID string) (DashboardStats, error) {
	org, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return DashboardStats{}, err
	}

	// "Today" follows the tenant's clock, matching how entry dates are
	// stamped at clock-in.
	today := tenantToday(s.now(), org.Timezone)
	weekStart := startOfWeek(today)

	rows, err := s.entries.List(ctx, tenantID, timeentry.ListFilter{
		StartDate: &weekStart,
		EndDate:   &today,
	})
	if err != nil {
		return DashboardStats{}, err
	}

	var stats DashboardStats
	for _, e := range rows {
		switch e.Status {
		case timeentry.StatusActive:
			stats.ActiveEntries++
		case timeentry.StatusCompleted:
			hours := 0.0
			if e.TotalHours != nil {
				hours = *e.TotalHours
			}
			stats.TotalHoursWeek += hours
			if e.EntryDate.Equal(today) {
				stats.CompletedToday++
				stats.TotalHoursToday += hours
			}
			if !e.IsApproved {
				stats.PendingApprovals++
			}
		}
	}
	stats.TotalHoursToday = round2(stats.TotalHoursToday)
	stats.TotalHoursWeek = round2(stats.TotalHoursWeek)

	return stats, nil
}

// PayrollRows flattens completed, filtered entries into per-user per-day
// lines. Output order is fixed (user id, then date) so the same input
// always serializes identically.
func (s *service) PayrollRows(ctx context.Context, tenantID string, f ExportFilter) ([]PayrollRow, error) {
	org, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	filter := timeentry.ListFilter{
		UserID: f.UserID,
		Status: timeentry.StatusCompleted,
	}
	if f.StartDate != "" {
		t, err := time.Parse("2006-01-02", f.StartDate)
		if err == nil {
			filter.StartDate = &t
		}
	}
	if f.EndDate != "" {
		t, err := time.Parse("2006-01-02", f.EndDate)
		if err == nil {
			filter.EndDate = &t
		}
	}

	rows, err := s.entries.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	names, err := s.userNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	type dayKey struct {
		userID string
		date   string
	}
	perDay := map[dayKey]*PayrollRow{}
	approvedAll := map[dayKey]bool{}
	for _, e := range rows {
		if e.TotalHours == nil {
			continue
		}
		key := dayKey{userID: e.UserID.String(), date: e.EntryDate.Format("2006-01-02")}
		row, ok := perDay[key]
		if !ok {
			row = &PayrollRow{
				UserID:   key.userID,
				UserName: names[key.userID],
				Date:     key.date,
			}
			perDay[key] = row
			approvedAll[key] = true
		}
		row.TotalHours += *e.TotalHours
		if !e.IsApproved {
			approvedAll[key] = false
		}
	}

	daily := org.Settings.WorkHours.DailyOvertimeThreshold
	if daily <= 0 {
		daily = 8
	}

	out := make([]PayrollRow, 0, len(perDay))
	for key, row := range perDay {
		row.TotalHours = round2(row.TotalHours)
		row.RegularHours = round2(math.Min(row.TotalHours, daily))
		row.OvertimeHours = round2(row.TotalHours - row.RegularHours)
		row.Approved = approvedAll[key]
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Date < out[j].Date
	})

	return out, nil
}

func (s *service) userNames(ctx context.Context, tenantID string) (map[string]string, error) {
	users, err := s.users.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.String()] = u.Name
	}
	return names, nil
}

// splitOvertime applies the daily threshold per calendar day, then the
// weekly threshold over the remaining regular hours.
func splitOvertime(entries []timeentry.TimeEntry, policy tenant.WorkHourPolicy) (regular, overtime float64) {
	daily := policy.DailyOvertimeThreshold
	if daily <= 0 {
		daily = 8
	}
	weekly := policy.WeeklyOvertimeThreshold
	if weekly <= 0 {
		weekly = 40
	}

	perDay := map[string]float64{}
	for _, e := range entries {
		if e.TotalHours == nil {
			continue
		}
		perDay[e.EntryDate.Format("2006-01-02")] += *e.TotalHours
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, d := range days {
		hours := perDay[d]
		dayRegular := math.Min(hours, daily)
		overtime += hours - dayRegular
		regular += dayRegular
	}

	if regular > weekly {
		overtime += regular - weekly
		regular = weekly
	}

	return round2(regular), round2(overtime)
}

// tenantToday resolves the current calendar day in the tenant's
// timezone, the same resolution entry dates get at clock-in. Unknown
// zone names fall back to UTC.
func tenantToday(now time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started Monday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
