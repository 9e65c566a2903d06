package models

import (
	"time"

	"github.com/google/uuid"
)

// InstanceStatus represents the lifecycle status of a school instance
type InstanceStatus string

const (
	InstanceStatusPending   InstanceStatus = "pending"
	InstanceStatusActive    InstanceStatus = "active"
	InstanceStatusSuspended InstanceStatus = "suspended"
	InstanceStatusCancelled InstanceStatus = "cancelled"
)

// Tenant represents a school organization whose data is isolated from all others
type Tenant struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	ContactEmail string    `json:"contact_email" gorm:"type:varchar(255)"`
	ContactPhone string    `json:"contact_phone" gorm:"type:varchar(50)"`
	Address      string    `json:"address" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Tenant) TableName() string {
	return "tenants"
}

// SchoolInstance represents the provisioned, subdomain-bound unit for one tenant
type SchoolInstance struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      uuid.UUID      `json:"tenant_id" gorm:"type:uuid;uniqueIndex;not null"`
	Subdomain     string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Status        InstanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Plan          string         `json:"plan" gorm:"type:varchar(50);default:'basic'"`
	MaxStudents   int            `json:"max_students" gorm:"default:500"`
	MaxStaff      int            `json:"max_staff" gorm:"default:50"`
	SetupComplete bool           `json:"setup_complete" gorm:"default:false"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName specifies the table name
func (SchoolInstance) TableName() string {
	return "school_instances"
}

// IsActive reports whether the instance resolves to a usable tenant
func (s *SchoolInstance) IsActive() bool {
	return s.Status == InstanceStatusActive
}
