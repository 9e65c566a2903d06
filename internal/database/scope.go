package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantScope returns a gorm scope that injects the resolved tenant id as a
// filter. Every repository method touching tenant-scoped tables goes through
// this so no query can read across tenants.
func TenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
