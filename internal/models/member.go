package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus represents the approval status of a membership
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRejected MemberStatus = "rejected"
)

// Role names (static reference data)
const (
	RoleSuperAdmin     = "superadmin"
	RoleAdmin          = "admin"
	RoleTeacher        = "teacher"
	RoleAccountant     = "accountant"
	RoleLibrarian      = "librarian"
	RoleParent         = "parent"
	RoleStudent        = "student"
	RoleDriver         = "driver"
	RoleSalesExecutive = "sales_executive"
	RoleSalesManager   = "sales_manager"
)

// Role is a named permission class
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Role) TableName() string {
	return "roles"
}

// SeedRoles returns the static role reference rows
func SeedRoles() []Role {
	return []Role{
		{Name: RoleSuperAdmin, DisplayName: "Super Admin"},
		{Name: RoleAdmin, DisplayName: "Admin"},
		{Name: RoleTeacher, DisplayName: "Teacher"},
		{Name: RoleAccountant, DisplayName: "Accountant"},
		{Name: RoleLibrarian, DisplayName: "Librarian"},
		{Name: RoleParent, DisplayName: "Parent"},
		{Name: RoleStudent, DisplayName: "Student"},
		{Name: RoleDriver, DisplayName: "Driver"},
		{Name: RoleSalesExecutive, DisplayName: "Sales Executive"},
		{Name: RoleSalesManager, DisplayName: "Sales Manager"},
	}
}

// Member binds a user identity to a tenant with a role and approval status.
// At most one row exists per (user, tenant) pair.
type Member struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_user_tenant;index"`
	TenantID  uuid.UUID    `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_user_tenant;index"`
	RoleID    uuid.UUID    `json:"role_id" gorm:"type:uuid;not null"`
	Status    MemberStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Role   *Role   `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName specifies the table name
func (Member) TableName() string {
	return "members"
}

// IsApproved reports whether the membership is usable for tenant resolution
func (m *Member) IsApproved() bool {
	return m.Status == MemberStatusApproved
}

// Membership is the resolved (tenant, role) view returned by the tenant resolver
type Membership struct {
	TenantID        uuid.UUID `json:"tenant_id"`
	TenantName      string    `json:"tenant_name"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	Subdomain       string    `json:"subdomain,omitempty"`
	RoleName        string    `json:"role_name"`
	RoleDisplayName string    `json:"role_display_name"`
}
