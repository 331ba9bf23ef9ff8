package report

type WeeklyReportRow struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	WeekStart     string  `json:"week_start"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
}

type DashboardStats struct {
	ActiveEntries    int     `json:"active_entries"`
	CompletedToday   int     `json:"completed_today"`
	TotalHoursToday  float64 `json:"total_hours_today"`
	TotalHoursWeek   float64 `json:"total_hours_week"`
	PendingApprovals int     `json:"pending_approvals"`
}

type ExportFilter struct {
	UserID    string `form:"userId" binding:"omitempty,uuid"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Format    string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// PayrollRow is one exported line: a user's day with the overtime split
// already applied.
type PayrollRow struct {
	UserID        string
	UserName      string
	Date          string
	RegularHours  float64
	OvertimeHours float64
	TotalHours    float64
	Approved      bool
}
