package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant's rows. Every ledger query must
// go through this; cross-tenant reads are forbidden.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
