package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant's partition.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopeTable is Scope for joined queries where tenant_id is ambiguous.
func ScopeTable(table, tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".tenant_id = ?", tenantID)
	}
}
