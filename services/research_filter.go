package services

import (
	"log"
	"strings"
	"time"
)

// ResearchPageSize is the fixed page size of the research listing.
const ResearchPageSize = 10

// allValue is the query value meaning "no constraint".
const allValue = "all"

// ListingParams are the raw query parameters of the research listing.
type ListingParams struct {
	Search       string
	Department   string
	Course       string
	AcademicYear string
	Page         int
}

// FilterCriteria is the combined predicate of caller scope and query parameters.
// Empty string fields are unconstrained.
type FilterCriteria struct {
	Department   string
	Course       string
	AcademicYear string
	Search       string
	OwnerID      *int
	Page         int
}

// BuildCriteria merges the forced scope with the caller's parameters. Forced values always
// win over parameters. Page is passed through unclamped.
func BuildCriteria(scope VisibilityScope, params ListingParams, now time.Time) FilterCriteria {
	c := FilterCriteria{
		Department: firstConstraint(scope.ForcedDepartment, params.Department),
		Course:     firstConstraint(scope.ForcedCourse, params.Course),
		Search:     strings.TrimSpace(params.Search),
		OwnerID:    scope.OwnerID,
		Page:       params.Page,
	}
	if c.Page < 1 {
		c.Page = 1
	}

	year := strings.TrimSpace(params.AcademicYear)
	switch {
	case year == "":
		c.AcademicYear = DefaultAcademicYearSpan(now)
	case strings.EqualFold(year, allValue):
		c.AcademicYear = ""
	default:
		span, ok := ParseAcademicYearSpan(year)
		if !ok {
			log.Printf("research filter: ignoring malformed academic year %q", year)
			span = DefaultAcademicYearSpan(now)
		}
		c.AcademicYear = span
	}
	return c
}

func firstConstraint(forced, requested string) string {
	if v := strings.TrimSpace(forced); v != "" {
		return v
	}
	v := strings.TrimSpace(requested)
	if strings.EqualFold(v, allValue) {
		return ""
	}
	return v
}

// PassesGate is the status/ownership gate: never Archived, and either Approved or owned by
// the caller.
func (c FilterCriteria) PassesGate(s Submission) bool {
	if s.Status == StatusArchived {
		return false
	}
	return s.Status == StatusApproved || c.owns(s)
}

func (c FilterCriteria) owns(s Submission) bool {
	return c.OwnerID != nil && s.OwnerID != nil && *s.OwnerID == *c.OwnerID
}

// Matches evaluates the full predicate. A row owned by the caller skips the department,
// course and year constraints; search still applies to it.
func (c FilterCriteria) Matches(s Submission, lookups *LookupResolver) bool {
	if !c.PassesGate(s) || !matchesSearch(s, c.Search) {
		return false
	}
	if c.owns(s) {
		return true
	}
	if !MatchesAcademicYear(s.AcademicYear, c.AcademicYear) {
		return false
	}
	if c.Department != "" && !lookups.MatchesDepartment(s.Department, c.Department) {
		return false
	}
	if c.Course != "" {
		dept := c.Department
		if dept == "" {
			dept = s.Department
		}
		if !lookups.MatchesCourse(s.Course, c.Course, dept) {
			return false
		}
	}
	return true
}

// MatchesAcademicYear is a substring test so "A.Y. 2025-2026" and "S.Y. 2025-2026" both
// match the span "2025-2026".
func MatchesAcademicYear(label, span string) bool {
	if span == "" {
		return true
	}
	return strings.Contains(label, span)
}

func matchesSearch(s Submission, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	for _, field := range []string{s.Title, s.Keywords, s.Members, s.Department} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FallbackQuery is the reduced predicate of the degraded listing: administrator works,
// Approved only, year and a lookup-free department match. Course and ownership are dropped.
type FallbackQuery struct {
	AcademicYear string
	Department   string
	Search       string
}

// Fallback narrows the criteria to what the degraded path still honours.
func (c FilterCriteria) Fallback() FallbackQuery {
	return FallbackQuery{
		AcademicYear: c.AcademicYear,
		Department:   c.Department,
		Search:       c.Search,
	}
}

// Matches is the in-memory equivalent of the SQL the store runs for the fallback path.
// It collapses inner whitespace of the stored department, which the SQL does not.
func (q FallbackQuery) Matches(s Submission) bool {
	if s.Origin != OriginAdmin || s.Status != StatusApproved {
		return false
	}
	if !MatchesAcademicYear(s.AcademicYear, q.AcademicYear) {
		return false
	}
	if q.Department != "" && !MatchLabelLoose(s.Department, q.Department) {
		return false
	}
	return matchesSearch(s, q.Search)
}
