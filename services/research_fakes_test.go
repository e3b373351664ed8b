package services

import (
	"context"
	"sync"
	"time"

	"research-registry-api/models"
)

// fakeSource applies the same gate and fallback predicate the SQL store pushes down.
type fakeSource struct {
	admin      []Submission
	student    []Submission
	adminErr   error
	studentErr error
	countErr   error
	fetchErr   error

	fallbackCounts int
}

func (f *fakeSource) FetchGated(_ context.Context, origin Origin, ownerID *int) ([]Submission, error) {
	rows, err := f.admin, f.adminErr
	if origin == OriginStudent {
		rows, err = f.student, f.studentErr
	}
	if err != nil {
		return nil, err
	}
	gate := FilterCriteria{OwnerID: ownerID}
	var out []Submission
	for _, s := range rows {
		if gate.PassesGate(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) fallbackRows(q FallbackQuery) []Submission {
	var out []Submission
	for _, s := range f.admin {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	SortSubmissions(out)
	return out
}

func (f *fakeSource) CountFallback(_ context.Context, q FallbackQuery) (int64, error) {
	f.fallbackCounts++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.fallbackRows(q))), nil
}

func (f *fakeSource) FetchFallbackPage(_ context.Context, q FallbackQuery, offset, limit int) ([]Submission, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	rows := f.fallbackRows(q)
	if offset >= len(rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

type fakeLookups struct {
	resolver *LookupResolver
	err      error
}

func (f fakeLookups) LoadLookups(context.Context) (*LookupResolver, error) {
	return f.resolver, f.err
}

type fakeStaffDirectory struct {
	canonical string
	legacy    string
	err       error
}

func (f fakeStaffDirectory) StaffDepartment(context.Context, int) (string, string, error) {
	return f.canonical, f.legacy, f.err
}

type fakeEnrichment struct {
	names     map[int]string
	ratings   map[SubmissionKey]RatingAggregate
	namesErr  error
	ratingErr error

	nameCalls   [][]int
	ratingCalls [][]SubmissionKey
}

func (f *fakeEnrichment) StudentNames(_ context.Context, ids []int) (map[int]string, error) {
	f.nameCalls = append(f.nameCalls, ids)
	return f.names, f.namesErr
}

func (f *fakeEnrichment) RatingAggregates(_ context.Context, keys []SubmissionKey) (map[SubmissionKey]RatingAggregate, error) {
	f.ratingCalls = append(f.ratingCalls, keys)
	return f.ratings, f.ratingErr
}

type recordingNotifier struct {
	mu     sync.Mutex
	causes []error
}

func (n *recordingNotifier) PrimaryUnavailable(_ context.Context, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.causes = append(n.causes, err)
}

func testLookups() *LookupResolver {
	return NewLookupResolver(
		[]models.Department{
			{DepartmentID: 1, Name: "College of Computer Studies", Code: "CCS", IsActive: true},
			{DepartmentID: 2, Name: "Senior High School", Code: "SHS", IsActive: true},
			{DepartmentID: 3, Name: "College of Education", Code: "COED", IsActive: true},
		},
		[]models.Course{
			{CourseID: 1, DepartmentID: 1, Name: "Bachelor of Science in Information Technology", Code: "BSIT"},
			{CourseID: 2, DepartmentID: 1, Name: "Bachelor of Science in Computer Science", Code: "BSCS"},
			{CourseID: 3, DepartmentID: 3, Name: "Bachelor of Secondary Education", Code: "BSED"},
		},
		[]models.Strand{
			{StrandID: 1, DepartmentID: 2, Name: "Science, Technology, Engineering and Mathematics", Code: "STEM"},
			{StrandID: 2, DepartmentID: 2, Name: "Accountancy, Business and Management", Code: "ABM"},
		},
	)
}

func intPtr(v int) *int { return &v }

var baseTime = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// adminPaper builds an approved administrator submission in A.Y. 2025-2026.
func adminPaper(id int, dept, course string, ageHours int) Submission {
	return Submission{
		ID:           id,
		Origin:       OriginAdmin,
		Title:        "Admin paper",
		AcademicYear: "A.Y. 2025-2026",
		Department:   dept,
		Course:       course,
		SubmittedAt:  baseTime.Add(-time.Duration(ageHours) * time.Hour),
		Status:       StatusApproved,
	}
}

func studentPaper(id, owner int, dept, course string, status SubmissionStatus, ageHours int) Submission {
	return Submission{
		ID:           id,
		Origin:       OriginStudent,
		Title:        "Student paper",
		AcademicYear: "A.Y. 2025-2026",
		Department:   dept,
		Course:       course,
		SubmittedAt:  baseTime.Add(-time.Duration(ageHours) * time.Hour),
		OwnerID:      intPtr(owner),
		Status:       status,
	}
}
