package services

import (
	"testing"
	"time"
)

func TestFuzzyDepartmentMatch(t *testing.T) {
	lookups := testLookups()

	cases := []struct {
		name   string
		field  string
		target string
		want   bool
	}{
		{"code equality ignores case", "shs", "SHS", true},
		{"free-text code matches canonical name", "shs", "Senior High School", true},
		{"free-text name matches canonical code", "Senior High School", "shs", true},
		{"field contains target", "SHS - Senior High", "shs", true},
		{"target contains field", "SHS", "SHS Main Campus", true},
		{"short code over-matches by containment", "BSIT-CCS", "CCS", true},
		{"unrelated department", "College of Education", "Senior High School", false},
		{"empty field never matches", "", "CCS", false},
		{"blank field never matches", "   ", "CCS", false},
		{"empty target is unconstrained", "CCS", "", true},
	}
	for _, tc := range cases {
		if got := lookups.MatchesDepartment(tc.field, tc.target); got != tc.want {
			t.Fatalf("%s: MatchesDepartment(%q, %q) = %v, want %v", tc.name, tc.field, tc.target, got, tc.want)
		}
	}
}

func TestCourseMatchUsesStrandsForSecondaryTrack(t *testing.T) {
	lookups := testLookups()

	if !lookups.MatchesCourse("STEM", "Science, Technology, Engineering and Mathematics", "SHS") {
		t.Fatalf("expected strand code to match strand name under SHS")
	}
	if lookups.MatchesCourse("STEM", "Science, Technology, Engineering and Mathematics", "CCS") {
		t.Fatalf("strand lookup must not apply to a course-based department")
	}
	if !lookups.MatchesCourse("BSIT", "Bachelor of Science in Information Technology", "") {
		t.Fatalf("expected course code to match course name with no department context")
	}
	if got := lookups.CourseLabel("Senior High School"); got != "Strand" {
		t.Fatalf("expected Strand label, got %q", got)
	}
	if got := lookups.CourseLabel("ccs"); got != "Course" {
		t.Fatalf("expected Course label, got %q", got)
	}
}

func TestBuildCriteriaForcedScopeWins(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	scope := VisibilityScope{ForcedDepartment: "CCS", ForcedCourse: "BSIT", OwnerID: intPtr(7)}
	params := ListingParams{Department: "SHS", Course: "STEM", Search: "  robots ", Page: 0}

	c := BuildCriteria(scope, params, now)
	if c.Department != "CCS" || c.Course != "BSIT" {
		t.Fatalf("forced scope must override parameters, got %+v", c)
	}
	if c.OwnerID == nil || *c.OwnerID != 7 {
		t.Fatalf("owner id not carried: %+v", c)
	}
	if c.Search != "robots" || c.Page != 1 {
		t.Fatalf("unexpected search/page: %+v", c)
	}
	if c.AcademicYear != "2025-2026" {
		t.Fatalf("expected default academic year, got %q", c.AcademicYear)
	}
}

func TestBuildCriteriaParameters(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	c := BuildCriteria(VisibilityScope{}, ListingParams{Department: "All", Course: "all", AcademicYear: "2022-2023", Page: 4}, now)
	if c.Department != "" || c.Course != "" {
		t.Fatalf("\"all\" must leave department/course unconstrained: %+v", c)
	}
	if c.AcademicYear != "2022-2023" || c.Page != 4 {
		t.Fatalf("explicit year/page not honoured: %+v", c)
	}

	c = BuildCriteria(VisibilityScope{}, ListingParams{AcademicYear: "all"}, now)
	if c.AcademicYear != "" {
		t.Fatalf("year \"all\" must disable the year filter, got %q", c.AcademicYear)
	}

	c = BuildCriteria(VisibilityScope{}, ListingParams{AcademicYear: "2022-2025"}, now)
	if c.AcademicYear != "2024-2025" {
		t.Fatalf("malformed year must fall back to the default, got %q", c.AcademicYear)
	}
}

func TestGateAndOwnershipOverride(t *testing.T) {
	lookups := testLookups()
	c := FilterCriteria{Department: "CCS", Course: "BSIT", AcademicYear: "2025-2026", OwnerID: intPtr(7)}

	ownPendingElsewhere := studentPaper(1, 7, "SHS", "STEM", StatusPending, 1)
	ownPendingElsewhere.AcademicYear = "S.Y. 2019-2020"
	if !c.Matches(ownPendingElsewhere, lookups) {
		t.Fatalf("caller's own work must bypass department/course/year filters")
	}

	ownArchived := studentPaper(2, 7, "CCS", "BSIT", StatusArchived, 1)
	if c.Matches(ownArchived, lookups) {
		t.Fatalf("archived work must never match")
	}

	othersPending := studentPaper(3, 8, "CCS", "BSIT", StatusPending, 1)
	if c.Matches(othersPending, lookups) {
		t.Fatalf("another student's pending work must never match")
	}

	othersApproved := studentPaper(4, 8, "College of Computer Studies", "Bachelor of Science in Information Technology", StatusApproved, 1)
	if !c.Matches(othersApproved, lookups) {
		t.Fatalf("approved work in scope should match through the lookup tables")
	}

	withSearch := c
	withSearch.Search = "zebra"
	if withSearch.Matches(ownPendingElsewhere, lookups) {
		t.Fatalf("search still narrows the caller's own work")
	}
}

func TestSearchMatchesTitleKeywordsMembersDepartment(t *testing.T) {
	s := Submission{Title: "Solar Dryer", Keywords: "energy, food", Members: "Ana Cruz; Ben Ong", Department: "CCS"}
	for _, q := range []string{"solar", "FOOD", "ben ong", "ccs"} {
		if !matchesSearch(s, q) {
			t.Fatalf("expected %q to match", q)
		}
	}
	if matchesSearch(s, "robotics") {
		t.Fatalf("unexpected match")
	}
}

func TestFallbackQueryDropsCourseAndOwnership(t *testing.T) {
	c := FilterCriteria{Department: "SHS", Course: "STEM", AcademicYear: "2025-2026", OwnerID: intPtr(7)}
	q := c.Fallback()

	if !q.Matches(adminPaper(1, "shs", "ABM", 1)) {
		t.Fatalf("fallback must ignore the course filter")
	}
	if q.Matches(studentPaper(2, 7, "SHS", "STEM", StatusApproved, 1)) {
		t.Fatalf("fallback must only return administrator works")
	}
	pending := adminPaper(3, "SHS", "STEM", 1)
	pending.Status = StatusPending
	if q.Matches(pending) {
		t.Fatalf("fallback must only return approved works")
	}
	if q.Matches(adminPaper(4, "Senior High School", "STEM", 1)) {
		t.Fatalf("fallback department match must not use the lookup tables")
	}
	if q.Matches(adminPaper(5, "%", "STEM", 1)) {
		t.Fatalf("a stored wildcard must be compared literally")
	}

	spaced := FallbackQuery{AcademicYear: "2025-2026", Department: "senior high school"}
	if !spaced.Matches(adminPaper(6, "Senior  High\tSchool", "STEM", 1)) {
		t.Fatalf("in-memory fallback match should collapse inner whitespace")
	}
}
