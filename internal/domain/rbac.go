package domain

// EnforceRequest carries everything the RBAC layer needs to decide
// whether an actor may perform an action on a resource within a tenant.
type EnforceRequest struct {
	Role     string
	TenantID string
	Resource string
	Action   string
}
