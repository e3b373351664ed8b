package models

import "strings"

// Department represents a canonical department row.
type Department struct {
	DepartmentID int    `gorm:"primaryKey;column:department_id" json:"department_id"`
	Name         string `gorm:"column:name" json:"name"`
	Code         string `gorm:"column:code" json:"code"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// Course represents a college course offered by a department.
type Course struct {
	CourseID     int    `gorm:"primaryKey;column:course_id" json:"course_id"`
	DepartmentID int    `gorm:"column:department_id" json:"department_id"`
	Name         string `gorm:"column:name" json:"name"`
	Code         string `gorm:"column:code" json:"code"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// Strand represents a senior high school strand. Strands play the role of courses for
// secondary-track departments.
type Strand struct {
	StrandID     int    `gorm:"primaryKey;column:strand_id" json:"strand_id"`
	DepartmentID int    `gorm:"column:department_id" json:"department_id"`
	Name         string `gorm:"column:name" json:"name"`
	Code         string `gorm:"column:code" json:"code"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// TableName overrides
func (Department) TableName() string {
	return "departments"
}

func (Course) TableName() string {
	return "courses"
}

func (Strand) TableName() string {
	return "strands"
}

// IsSecondaryTrack reports whether the department is strand based rather than course based.
func (d Department) IsSecondaryTrack() bool {
	if strings.EqualFold(strings.TrimSpace(d.Code), "SHS") {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), "senior high")
}
