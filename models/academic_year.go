package models

// AcademicYear is a configured academic-year span such as "2025-2026".
type AcademicYear struct {
	AcademicYearID int    `gorm:"primaryKey;column:academic_year_id" json:"academic_year_id"`
	Span           string `gorm:"column:span;unique" json:"span"`
	IsActive       bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// TableName overrides
func (AcademicYear) TableName() string {
	return "academic_years"
}
