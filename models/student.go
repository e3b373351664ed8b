package models

import "time"

type Student struct {
	StudentID     int        `gorm:"primaryKey;column:student_id" json:"student_id"`
	StudentNumber string     `gorm:"column:student_number;unique" json:"student_number"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	Email         string     `gorm:"column:email" json:"email"`
	Department    string     `gorm:"column:department" json:"department"`
	Course        string     `gorm:"column:course_strand" json:"course_strand"`
	Password      string     `gorm:"column:password" json:"-"`
	IsVerified    bool       `gorm:"column:is_verified" json:"is_verified"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides
func (Student) TableName() string {
	return "students"
}

// FullName returns "First Last" with empty parts dropped.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
