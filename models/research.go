package models

import "time"

// Research status codes shared by both research tables.
const (
	ResearchStatusPending  = 0
	ResearchStatusApproved = 1
	ResearchStatusArchived = 2
)

// AdminResearch represents a work published directly by an administrator (research_papers).
// Column names follow the current schema; older deployments are handled by the schema adapter
// in services, not by these tags.
type AdminResearch struct {
	ResearchID   int       `gorm:"primaryKey;column:id" json:"id"`
	Title        string    `gorm:"column:title" json:"title"`
	AcademicYear string    `gorm:"column:year" json:"year"`
	Abstract     string    `gorm:"column:abstract;type:text" json:"abstract"`
	Keywords     string    `gorm:"column:keywords" json:"keywords"`
	Members      string    `gorm:"column:author" json:"author"`
	Department   string    `gorm:"column:department" json:"department"`
	Course       string    `gorm:"column:course_strand" json:"course_strand"`
	ImagePath    *string   `gorm:"column:image" json:"image,omitempty"`
	DocumentPath *string   `gorm:"column:document" json:"document,omitempty"`
	Views        int       `gorm:"column:views;default:0" json:"views"`
	Status       int       `gorm:"column:status;default:1" json:"status"`
	UploadedAt   time.Time `gorm:"column:submission_date" json:"submission_date"`
}

// StudentResearch represents a work submitted by a student (student_research).
type StudentResearch struct {
	ResearchID   int       `gorm:"primaryKey;column:id" json:"id"`
	StudentID    int       `gorm:"column:student_id;index" json:"student_id"`
	Title        string    `gorm:"column:title" json:"title"`
	AcademicYear string    `gorm:"column:year" json:"year"`
	Abstract     string    `gorm:"column:abstract;type:text" json:"abstract"`
	Keywords     string    `gorm:"column:keywords" json:"keywords"`
	Members      string    `gorm:"column:members" json:"members"`
	Department   string    `gorm:"column:department" json:"department"`
	Course       string    `gorm:"column:course_strand" json:"course_strand"`
	ImagePath    *string   `gorm:"column:image" json:"image,omitempty"`
	DocumentPath *string   `gorm:"column:document" json:"document,omitempty"`
	Views        int       `gorm:"column:views;default:0" json:"views"`
	Status       int       `gorm:"column:status;default:0" json:"status"`
	SubmittedAt  time.Time `gorm:"column:submission_date" json:"submission_date"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName overrides
func (AdminResearch) TableName() string {
	return "research_papers"
}

func (StudentResearch) TableName() string {
	return "student_research"
}
