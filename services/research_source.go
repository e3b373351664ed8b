package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"research-registry-api/config"

	"gorm.io/gorm"
)

// ErrSourceUnavailable is returned when an origin table is missing or lacks required columns
// in this deployment.
var ErrSourceUnavailable = errors.New("research source unavailable")

// ResearchSource reads projected Submissions from the two origin tables.
type ResearchSource interface {
	// FetchGated returns one origin's rows that pass the status/ownership gate.
	FetchGated(ctx context.Context, origin Origin, ownerID *int) ([]Submission, error)
	// CountFallback and FetchFallbackPage serve the degraded listing.
	CountFallback(ctx context.Context, q FallbackQuery) (int64, error)
	FetchFallbackPage(ctx context.Context, q FallbackQuery, offset, limit int) ([]Submission, error)
}

// UnifySources concatenates the gated administrator and student sets. The origins never
// share ids, so there is nothing to de-duplicate.
func UnifySources(ctx context.Context, src ResearchSource, ownerID *int) ([]Submission, error) {
	admin, err := src.FetchGated(ctx, OriginAdmin, ownerID)
	if err != nil {
		return nil, fmt.Errorf("admin research: %w", err)
	}
	student, err := src.FetchGated(ctx, OriginStudent, ownerID)
	if err != nil {
		return nil, fmt.Errorf("student research: %w", err)
	}
	out := make([]Submission, 0, len(admin)+len(student))
	out = append(out, admin...)
	return append(out, student...), nil
}

// researchRow is the scan target of OriginSchema.SelectList.
type researchRow struct {
	ID           int            `gorm:"column:id"`
	Title        sql.NullString `gorm:"column:title"`
	AcademicYear sql.NullString `gorm:"column:academic_year"`
	Abstract     sql.NullString `gorm:"column:abstract"`
	Keywords     sql.NullString `gorm:"column:keywords"`
	Members      sql.NullString `gorm:"column:members"`
	Department   sql.NullString `gorm:"column:department"`
	Course       sql.NullString `gorm:"column:course"`
	ImagePath    sql.NullString `gorm:"column:image_path"`
	DocumentPath sql.NullString `gorm:"column:document_path"`
	Views        sql.NullInt64  `gorm:"column:views"`
	SubmittedAt  sql.NullTime   `gorm:"column:submitted_at"`
	OwnerID      sql.NullInt64  `gorm:"column:owner_id"`
	Status       sql.NullInt64  `gorm:"column:status"`
}

func (r researchRow) project(origin Origin) Submission {
	s := Submission{
		ID:           r.ID,
		Origin:       origin,
		Title:        strings.TrimSpace(r.Title.String),
		AcademicYear: strings.TrimSpace(r.AcademicYear.String),
		Abstract:     r.Abstract.String,
		Keywords:     r.Keywords.String,
		Members:      r.Members.String,
		Department:   strings.TrimSpace(r.Department.String),
		Course:       strings.TrimSpace(r.Course.String),
		ImagePath:    r.ImagePath.String,
		DocumentPath: r.DocumentPath.String,
		SubmittedAt:  r.SubmittedAt.Time,
		Status:       SubmissionStatus(r.Status.Int64),
	}
	if r.Views.Valid && r.Views.Int64 > 0 {
		s.Views = int(r.Views.Int64)
	}
	if r.OwnerID.Valid && origin == OriginStudent {
		id := int(r.OwnerID.Int64)
		s.OwnerID = &id
	}
	return s
}

// GormResearchStore implements ResearchSource over the registry database.
type GormResearchStore struct {
	db     *gorm.DB
	schema *ResearchSchema
}

// NewGormResearchStore binds the store to a schema resolved once by the caller. A nil
// schema is resolved here from db.
func NewGormResearchStore(db *gorm.DB, schema *ResearchSchema) *GormResearchStore {
	if db == nil {
		db = config.DB
	}
	if schema == nil {
		schema = ResolveResearchSchema(NewGormColumnProber(db))
	}
	return &GormResearchStore{db: db, schema: schema}
}

// Schema exposes the resolved mapping.
func (s *GormResearchStore) Schema() *ResearchSchema {
	return s.schema
}

func (s *GormResearchStore) origin(o Origin) (OriginSchema, error) {
	mapping := s.schema.Origin(o)
	if !mapping.Available {
		return mapping, fmt.Errorf("%w: %s (missing %v)", ErrSourceUnavailable, mapping.Table, mapping.Missing)
	}
	return mapping, nil
}

func (s *GormResearchStore) FetchGated(ctx context.Context, o Origin, ownerID *int) ([]Submission, error) {
	mapping, err := s.origin(o)
	if err != nil {
		return nil, err
	}
	statusCol, _ := mapping.Column(FieldStatus)

	q := s.db.WithContext(ctx).Table(mapping.Table).Select(mapping.SelectList())
	if ownerCol, ok := mapping.Column(FieldOwnerID); ok && ownerID != nil {
		q = q.Where(
			fmt.Sprintf("`%s` <> ? AND (`%s` = ? OR `%s` = ?)", statusCol, statusCol, ownerCol),
			int(StatusArchived), int(StatusApproved), *ownerID,
		)
	} else {
		q = q.Where(fmt.Sprintf("`%s` = ?", statusCol), int(StatusApproved))
	}

	var rows []researchRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.project(o))
	}
	return out, nil
}

// fallbackQuery builds the administrator-only, Approved-only query. The department match is
// equality or containment in either direction, without the lookup tables. The stored value
// is compared with LOCATE so wildcard characters in it stay literal. Only the ends of the
// stored value are trimmed; runs of inner whitespace are compared as stored, unlike
// FallbackQuery.Matches which collapses them.
func (s *GormResearchStore) fallbackQuery(ctx context.Context, fq FallbackQuery) (*gorm.DB, OriginSchema, error) {
	mapping, err := s.origin(OriginAdmin)
	if err != nil {
		return nil, mapping, err
	}
	statusCol, _ := mapping.Column(FieldStatus)
	yearCol, _ := mapping.Column(FieldAcademicYear)
	deptCol, _ := mapping.Column(FieldDepartment)

	q := s.db.WithContext(ctx).Table(mapping.Table).
		Where(fmt.Sprintf("`%s` = ?", statusCol), int(StatusApproved))
	if fq.AcademicYear != "" {
		q = q.Where(fmt.Sprintf("`%s` LIKE ?", yearCol), likeContains(fq.AcademicYear))
	}
	if d := normalizeLabel(fq.Department); d != "" {
		q = q.Where(
			fmt.Sprintf("(LOWER(TRIM(`%[1]s`)) = ? OR LOWER(`%[1]s`) LIKE ? OR (TRIM(`%[1]s`) <> '' AND LOCATE(LOWER(TRIM(`%[1]s`)), ?) > 0))", deptCol),
			d, likeContains(d), d,
		)
	}
	if search := strings.TrimSpace(fq.Search); search != "" {
		var clauses []string
		var args []interface{}
		for _, f := range []ResearchField{FieldTitle, FieldKeywords, FieldMembers, FieldDepartment} {
			if col, ok := mapping.Column(f); ok {
				clauses = append(clauses, fmt.Sprintf("`%s` LIKE ?", col))
				args = append(args, likeContains(search))
			}
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return q, mapping, nil
}

func (s *GormResearchStore) CountFallback(ctx context.Context, fq FallbackQuery) (int64, error) {
	q, _, err := s.fallbackQuery(ctx, fq)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *GormResearchStore) FetchFallbackPage(ctx context.Context, fq FallbackQuery, offset, limit int) ([]Submission, error) {
	q, mapping, err := s.fallbackQuery(ctx, fq)
	if err != nil {
		return nil, err
	}
	submittedCol, _ := mapping.Column(FieldSubmittedAt)
	idCol, _ := mapping.Column(FieldID)

	var rows []researchRow
	err = q.Select(mapping.SelectList()).
		Order(fmt.Sprintf("`%s` DESC, `%s` DESC", submittedCol, idCol)).
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.project(OriginAdmin))
	}
	return out, nil
}

// ObservedAcademicYears returns the distinct academic-year labels stored in either origin.
// Unavailable origins and origins whose query fails are skipped; the error of the last
// failing origin is returned alongside whatever was collected.
func (s *GormResearchStore) ObservedAcademicYears(ctx context.Context) ([]string, error) {
	var labels []string
	var lastErr error
	for _, o := range []Origin{OriginAdmin, OriginStudent} {
		mapping, err := s.origin(o)
		if err != nil {
			continue
		}
		yearCol, _ := mapping.Column(FieldAcademicYear)
		var rows []sql.NullString
		if err := s.db.WithContext(ctx).Table(mapping.Table).
			Distinct().
			Pluck(yearCol, &rows).Error; err != nil {
			lastErr = fmt.Errorf("%s academic years: %w", o, err)
			continue
		}
		for _, r := range rows {
			if r.Valid {
				labels = append(labels, r.String)
			}
		}
	}
	return labels, lastErr
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
