package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is a tenant-scoped entity. Every query against it must carry the
// resolved tenant id filter; see database.TenantScope.
type Student struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	AdmissionNo    string     `json:"admission_no" gorm:"type:varchar(50);index"`
	FirstName      string     `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName       string     `json:"last_name" gorm:"type:varchar(100)"`
	ClassName      string     `json:"class_name" gorm:"type:varchar(50)"`
	Section        string     `json:"section" gorm:"type:varchar(10)"`
	GuardianPhone  string     `json:"guardian_phone" gorm:"type:varchar(50)"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Student) TableName() string {
	return "students"
}
