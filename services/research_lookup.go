package services

import (
	"context"
	"fmt"
	"strings"

	"research-registry-api/config"
	"research-registry-api/models"

	"gorm.io/gorm"
)

// LookupStore loads the canonical department/course/strand rows used to reconcile the
// free-text labels stored on research rows.
type LookupStore interface {
	LoadLookups(ctx context.Context) (*LookupResolver, error)
}

type lookupEntry struct {
	name string
	code string
}

// LookupResolver answers label questions against one snapshot of the lookup tables.
// It is built per request and never mutated afterwards.
type LookupResolver struct {
	departments []models.Department
	courses     []lookupEntry
	strands     []lookupEntry
}

func NewLookupResolver(departments []models.Department, courses []models.Course, strands []models.Strand) *LookupResolver {
	r := &LookupResolver{departments: departments}
	for _, c := range courses {
		r.courses = append(r.courses, lookupEntry{name: c.Name, code: c.Code})
	}
	for _, s := range strands {
		r.strands = append(r.strands, lookupEntry{name: s.Name, code: s.Code})
	}
	return r
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FindDepartment returns the department whose name or code equals label, ignoring case.
func (r *LookupResolver) FindDepartment(label string) (models.Department, bool) {
	if r == nil {
		return models.Department{}, false
	}
	key := normalizeLabel(label)
	if key == "" {
		return models.Department{}, false
	}
	for _, d := range r.departments {
		if normalizeLabel(d.Name) == key || normalizeLabel(d.Code) == key {
			return d, true
		}
	}
	return models.Department{}, false
}

// IsSecondaryTrack reports whether label resolves to a strand-based department.
func (r *LookupResolver) IsSecondaryTrack(label string) bool {
	d, ok := r.FindDepartment(label)
	return ok && d.IsSecondaryTrack()
}

// CourseLabel is the display label for the course field under the given department.
func (r *LookupResolver) CourseLabel(department string) string {
	if r.IsSecondaryTrack(department) {
		return "Strand"
	}
	return "Course"
}

func (r *LookupResolver) departmentEntries() []lookupEntry {
	if r == nil {
		return nil
	}
	out := make([]lookupEntry, 0, len(r.departments))
	for _, d := range r.departments {
		out = append(out, lookupEntry{name: d.Name, code: d.Code})
	}
	return out
}

// courseEntries picks the table a course target is resolved against: strands for a
// secondary-track department, courses for any other known department, both otherwise.
func (r *LookupResolver) courseEntries(department string) []lookupEntry {
	if r == nil {
		return nil
	}
	if d, ok := r.FindDepartment(department); ok {
		if d.IsSecondaryTrack() {
			return r.strands
		}
		return r.courses
	}
	out := make([]lookupEntry, 0, len(r.courses)+len(r.strands))
	out = append(out, r.courses...)
	return append(out, r.strands...)
}

// MatchesDepartment applies the fuzzy department rule to a free-text field.
func (r *LookupResolver) MatchesDepartment(field, target string) bool {
	return fuzzyMatch(field, target, r.departmentEntries())
}

// MatchesCourse applies the fuzzy course rule; department selects course vs strand rows.
func (r *LookupResolver) MatchesCourse(field, target, department string) bool {
	return fuzzyMatch(field, target, r.courseEntries(department))
}

// fuzzyMatch is true when any of these hold (case-insensitive):
//   - field equals target
//   - field equals the name or code of a lookup row whose name or code equals target
//   - field contains target, or target contains field
//
// Containment lets "shs" match "SHS - Senior High School" and the reverse, at the cost of
// over-matching short codes. An empty field never matches a non-empty target, even though
// every target trivially contains "": a row with no department or course is not treated
// as belonging to every department or course.
func fuzzyMatch(field, target string, entries []lookupEntry) bool {
	f := normalizeLabel(field)
	t := normalizeLabel(target)
	if t == "" {
		return true
	}
	if f == "" {
		return false
	}
	if f == t {
		return true
	}
	for _, e := range entries {
		name, code := normalizeLabel(e.name), normalizeLabel(e.code)
		if name != t && code != t {
			continue
		}
		if (name != "" && f == name) || (code != "" && f == code) {
			return true
		}
	}
	return containsEither(f, t)
}

// MatchLabelLoose is the lookup-free variant used by the fallback path.
func MatchLabelLoose(field, target string) bool {
	return fuzzyMatch(field, target, nil)
}

func containsEither(f, t string) bool {
	return strings.Contains(f, t) || strings.Contains(t, f)
}

// GormLookupStore reads lookup rows and staff profiles from the registry database.
type GormLookupStore struct {
	db *gorm.DB
}

func NewGormLookupStore(db *gorm.DB) *GormLookupStore {
	if db == nil {
		db = config.DB
	}
	return &GormLookupStore{db: db}
}

func (s *GormLookupStore) LoadLookups(ctx context.Context) (*LookupResolver, error) {
	db := s.db.WithContext(ctx)

	var departments []models.Department
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	var courses []models.Course
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	var strands []models.Strand
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&strands).Error; err != nil {
		return nil, fmt.Errorf("load strands: %w", err)
	}
	return NewLookupResolver(departments, courses, strands), nil
}

// ListDepartments returns active departments for the lookup endpoints.
func (s *GormLookupStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&departments).Error
	return departments, err
}

// ListDepartmentCourses returns the courses, or strands for a secondary-track department,
// together with the label the UI should use for them.
func (s *GormLookupStore) ListDepartmentCourses(ctx context.Context, departmentID int) (models.Department, string, []LookupOption, error) {
	var dept models.Department
	if err := s.db.WithContext(ctx).Where("department_id = ?", departmentID).First(&dept).Error; err != nil {
		return dept, "", nil, err
	}

	var rows []LookupOption
	table, label := "courses", "Course"
	idColumn := "course_id"
	if dept.IsSecondaryTrack() {
		table, label, idColumn = "strands", "Strand", "strand_id"
	}
	err := s.db.WithContext(ctx).Table(table).
		Select(idColumn+" AS id, name, code").
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Order("name ASC").
		Scan(&rows).Error
	return dept, label, rows, err
}

// LookupOption is a course or strand choice.
type LookupOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
