package models

import "time"

// ResearchReview is a student's rating of a research work. Reviews are keyed by origin and
// id because the two research tables do not share an id space.
type ResearchReview struct {
	ReviewID       int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	ResearchID     int       `gorm:"column:research_id;index:idx_review_research" json:"research_id"`
	ResearchOrigin string    `gorm:"column:research_origin;index:idx_review_research" json:"research_origin"`
	StudentID      int       `gorm:"column:student_id" json:"student_id"`
	Rating         int       `gorm:"column:rating" json:"rating"`
	Comment        *string   `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for ResearchReview.
func (ResearchReview) TableName() string {
	return "research_reviews"
}
