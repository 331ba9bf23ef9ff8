package timeentry

type ClockInRequest struct {
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type UpdateEntryRequest struct {
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

type ListEntriesFilter struct {
	UserID     string `form:"userId" binding:"omitempty,uuid"`
	StartDate  string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Status     string `form:"status" binding:"omitempty,oneof=active completed cancelled"`
	IsApproved *bool  `form:"isApproved"`
}

type BreakResponse struct {
	ID      string  `json:"id"`
	StartAt string  `json:"start_at"`
	EndAt   *string `json:"end_at,omitempty"`
}

type TimeEntryResponse struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	UserID     string          `json:"user_id"`
	EntryDate  string          `json:"entry_date"`
	ClockIn    string          `json:"clock_in"`
	ClockOut   *string         `json:"clock_out,omitempty"`
	TotalHours *float64        `json:"total_hours,omitempty"`
	Status     string          `json:"status"`
	Location   *string         `json:"location,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	IsApproved bool            `json:"is_approved"`
	Breaks     []BreakResponse `json:"breaks,omitempty"`
}
