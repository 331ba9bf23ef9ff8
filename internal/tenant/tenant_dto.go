package tenant

type UpdateSettingsRequest struct {
	Timezone  string          `json:"timezone"`
	Currency  string          `json:"currency"`
	WorkHours *WorkHourPolicy `json:"work_hours"`
	Breaks    *BreakPolicy    `json:"breaks"`
	Location  *LocationPolicy `json:"location"`
	Approval  *ApprovalPolicy `json:"approval"`
}

type TenantResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BusinessType string   `json:"business_type,omitempty"`
	Timezone     string   `json:"timezone"`
	Currency     string   `json:"currency"`
	Settings     Settings `json:"settings"`
	ContactEmail string   `json:"contact_email,omitempty"`
	ContactPhone string   `json:"contact_phone,omitempty"`
	IsActive     bool     `json:"is_active"`
}
