package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Admin activity actions
const (
	ActionCreateSchool   = "CREATE_SCHOOL"
	ActionUpdateSchool   = "UPDATE_SCHOOL"
	ActionDeleteSchool   = "DELETE_SCHOOL"
	ActionSuspendSchool  = "SUSPEND_SCHOOL"
	ActionActivateSchool = "ACTIVATE_SCHOOL"
	ActionApproveMember  = "APPROVE_MEMBER"
	ActionRejectMember   = "REJECT_MEMBER"
	ActionInviteMember   = "INVITE_MEMBER"
)

// Activity resource types
const (
	ResourceSchool = "SCHOOL"
	ResourceMember = "MEMBER"
	ResourceTenant = "TENANT"
)

// AdminActivityLog is an immutable audit record for a mutating admin action.
// Rows are only ever inserted; there is no update or delete API.
type AdminActivityLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AdminUserID  uuid.UUID      `json:"admin_user_id" gorm:"type:uuid;not null;index"`
	Action       string         `json:"action" gorm:"type:varchar(50);not null;index"`
	ResourceType string         `json:"resource_type" gorm:"type:varchar(50);index"`
	ResourceID   string         `json:"resource_id" gorm:"type:varchar(255);index"`
	Details      datatypes.JSON `json:"details" gorm:"type:jsonb"`
	IPAddress    string         `json:"ip_address" gorm:"type:varchar(45)"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index;not null"`
}

// TableName specifies the table name
func (AdminActivityLog) TableName() string {
	return "admin_activity_logs"
}

// BeforeCreate hook to set the creation timestamp
func (a *AdminActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return nil
}

// ActivityLogFilter represents filter criteria for back-office activity queries
type ActivityLogFilter struct {
	AdminUserID  *uuid.UUID `json:"admin_user_id"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   string     `json:"resource_id"`
	FromDate     *time.Time `json:"from_date"`
	ToDate       *time.Time `json:"to_date"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}
