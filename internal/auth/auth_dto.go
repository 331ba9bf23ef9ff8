package auth

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	PIN   string `json:"pin" binding:"required,numeric,min=4,max=8"`
}

type QuickLoginRequest struct {
	PIN string `json:"pin" binding:"required,numeric,min=4,max=8"`
}

type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required,numeric,min=4,max=8"`
	NewPIN     string `json:"new_pin" binding:"required,numeric,min=4,max=8"`
}

type AuthResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
