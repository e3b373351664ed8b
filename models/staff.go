package models

import "time"

// Staff roles stored in staff_accounts.role.
const (
	StaffRoleAdmin    = "admin"
	StaffRoleReviewer = "reviewer"
)

// Staff represents an administrator or a department-scoped reviewer account.
type Staff struct {
	StaffID      int        `gorm:"primaryKey;column:staff_id" json:"staff_id"`
	Username     string     `gorm:"column:username;unique" json:"username"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Role         string     `gorm:"column:role" json:"role"`
	DepartmentID *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	Department   string     `gorm:"column:department" json:"department"` // legacy free text
	Password     string     `gorm:"column:password" json:"-"`
	IsArchived   bool       `gorm:"column:is_archived" json:"is_archived"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	DepartmentRef *Department `gorm:"foreignKey:DepartmentID" json:"department_ref,omitempty"`
}

// TableName overrides
func (Staff) TableName() string {
	return "staff_accounts"
}
