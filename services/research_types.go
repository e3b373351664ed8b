package services

import (
	"strings"
	"time"

	"research-registry-api/models"
)

// Origin tags which table a Submission was projected from.
type Origin string

const (
	OriginAdmin   Origin = "admin"
	OriginStudent Origin = "student"
)

// ParseOrigin accepts the origin tag as used in URLs ("admin", "student").
func ParseOrigin(raw string) (Origin, bool) {
	switch Origin(strings.ToLower(strings.TrimSpace(raw))) {
	case OriginAdmin:
		return OriginAdmin, true
	case OriginStudent:
		return OriginStudent, true
	}
	return "", false
}

// SubmissionStatus mirrors the status column of both research tables.
type SubmissionStatus int

const (
	StatusPending  SubmissionStatus = models.ResearchStatusPending
	StatusApproved SubmissionStatus = models.ResearchStatusApproved
	StatusArchived SubmissionStatus = models.ResearchStatusArchived
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusArchived:
		return "Archived"
	}
	return "Unknown"
}

// Submission is the unified view of a research work, whichever table it came from.
// (Origin, ID) identifies a row; the two origins never share an id space.
type Submission struct {
	ID           int              `json:"id"`
	Origin       Origin           `json:"origin"`
	Title        string           `json:"title"`
	AcademicYear string           `json:"academic_year"`
	Abstract     string           `json:"abstract"`
	Keywords     string           `json:"keywords"`
	Members      string           `json:"members"`
	Department   string           `json:"department"`
	Course       string           `json:"course"`
	ImagePath    string           `json:"image_path"`
	DocumentPath string           `json:"document_path"`
	Views        int              `json:"views"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	OwnerID      *int             `json:"owner_id,omitempty"`
	Status       SubmissionStatus `json:"status"`
}

// Key returns the (Origin, ID) identity of the submission.
func (s Submission) Key() SubmissionKey {
	return SubmissionKey{Origin: s.Origin, ID: s.ID}
}

// SubmissionKey identifies a submission across both origins.
type SubmissionKey struct {
	Origin Origin
	ID     int
}

// Role of the caller as far as research visibility is concerned.
type Role int

const (
	RoleAnonymous Role = iota
	RoleAdmin
	RoleStaff
	RoleStudent
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStaff:
		return "staff"
	case RoleStudent:
		return "student"
	}
	return "anonymous"
}

// ParseRole maps the role claim carried in session tokens.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "staff", "reviewer":
		return RoleStaff
	case "student":
		return RoleStudent
	}
	return RoleAnonymous
}

// CallerScope is built once per request from the session and passed down by value.
type CallerScope struct {
	Role       Role
	OwnID      *int
	Department string
	Course     string
}
