package services

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"research-registry-api/models"

	"gorm.io/gorm"
)

// ResearchField is a logical column of the unified Submission projection.
type ResearchField string

const (
	FieldID           ResearchField = "id"
	FieldTitle        ResearchField = "title"
	FieldAcademicYear ResearchField = "academic_year"
	FieldAbstract     ResearchField = "abstract"
	FieldKeywords     ResearchField = "keywords"
	FieldMembers      ResearchField = "members"
	FieldDepartment   ResearchField = "department"
	FieldCourse       ResearchField = "course"
	FieldImage        ResearchField = "image_path"
	FieldDocument     ResearchField = "document_path"
	FieldViews        ResearchField = "views"
	FieldSubmittedAt  ResearchField = "submitted_at"
	FieldOwnerID      ResearchField = "owner_id"
	FieldStatus       ResearchField = "status"
)

// fieldSpec lists the physical names a field has carried, newest first. Optional fields
// that are absent are projected as a literal default.
type fieldSpec struct {
	field      ResearchField
	candidates []string
	required   bool
	missing    string
}

var researchFieldSpecs = []fieldSpec{
	{field: FieldID, candidates: []string{"id", "research_id"}, required: true},
	{field: FieldTitle, candidates: []string{"title", "research_title"}, required: true},
	{field: FieldAcademicYear, candidates: []string{"year", "academic_year", "school_year"}, required: true},
	{field: FieldAbstract, candidates: []string{"abstract", "description"}, missing: "''"},
	{field: FieldKeywords, candidates: []string{"keywords", "keyword", "tags"}, missing: "''"},
	{field: FieldMembers, candidates: []string{"members", "author", "authors"}, missing: "''"},
	{field: FieldDepartment, candidates: []string{"department", "dept"}, required: true},
	{field: FieldCourse, candidates: []string{"course_strand", "course", "strand"}, missing: "''"},
	{field: FieldImage, candidates: []string{"image", "image_path", "cover_image"}, missing: "''"},
	{field: FieldDocument, candidates: []string{"document", "document_path", "file_path", "pdf_path"}, missing: "''"},
	{field: FieldViews, candidates: []string{"views", "view_count"}, missing: "0"},
	{field: FieldSubmittedAt, candidates: []string{"submission_date", "date_submitted", "created_at"}, required: true},
	{field: FieldOwnerID, candidates: []string{"student_id", "owner_id"}, missing: "NULL"},
	{field: FieldStatus, candidates: []string{"status", "approval_status"}, required: true},
}

var originTableCandidates = map[Origin][]string{
	OriginAdmin:   {models.AdminResearch{}.TableName(), "admin_research"},
	OriginStudent: {models.StudentResearch{}.TableName(), "student_researches"},
}

// ColumnProber answers schema questions. The gorm migrator satisfies it in production.
type ColumnProber interface {
	HasTable(table string) bool
	HasColumn(table, column string) bool
}

type gormColumnProber struct {
	db *gorm.DB
}

// NewGormColumnProber probes through the gorm migrator of db.
func NewGormColumnProber(db *gorm.DB) ColumnProber {
	return gormColumnProber{db: db}
}

func (p gormColumnProber) HasTable(table string) bool {
	return p.db.Migrator().HasTable(table)
}

func (p gormColumnProber) HasColumn(table, column string) bool {
	return p.db.Migrator().HasColumn(table, column)
}

// OriginSchema is the resolved mapping for one origin table.
type OriginSchema struct {
	Origin    Origin          `json:"origin"`
	Table     string          `json:"table"`
	Available bool            `json:"available"`
	Adapted   bool            `json:"adapted"`
	Missing   []ResearchField `json:"missing"`
	columns   map[ResearchField]string
}

// Column returns the physical column backing field, if the table has one.
func (o OriginSchema) Column(field ResearchField) (string, bool) {
	col, ok := o.columns[field]
	return col, ok
}

// SelectList renders "`col` AS field" for every logical field, substituting literal
// defaults for optional fields the table lacks.
func (o OriginSchema) SelectList() string {
	parts := make([]string, 0, len(researchFieldSpecs))
	for _, spec := range researchFieldSpecs {
		if col, ok := o.columns[spec.field]; ok {
			parts = append(parts, fmt.Sprintf("`%s` AS %s", col, spec.field))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", spec.missing, spec.field))
	}
	return strings.Join(parts, ", ")
}

// ResearchSchema maps logical fields to physical columns for both origins. It is resolved
// once at startup and read-only afterwards.
type ResearchSchema struct {
	origins map[Origin]OriginSchema
}

// Origin returns the mapping for o.
func (s *ResearchSchema) Origin(o Origin) OriginSchema {
	if s == nil {
		return OriginSchema{Origin: o}
	}
	return s.origins[o]
}

// Version summarises each table: "current" when every field uses its newest column name,
// "adapted" when some field resolved through an older name or a renamed table.
func (s *ResearchSchema) Version() string {
	var parts []string
	for _, o := range []Origin{OriginAdmin, OriginStudent} {
		mapping := s.Origin(o)
		gen := "current"
		switch {
		case !mapping.Available:
			gen = "unavailable"
		case mapping.Adapted:
			gen = "adapted"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", o, gen))
	}
	return strings.Join(parts, ",")
}

// ResolveResearchSchema probes both origin tables and fixes the column mapping.
func ResolveResearchSchema(prober ColumnProber) *ResearchSchema {
	schema := &ResearchSchema{origins: make(map[Origin]OriginSchema, 2)}
	for origin, tables := range originTableCandidates {
		schema.origins[origin] = resolveOrigin(prober, origin, tables)
	}
	log.Printf("research schema resolved: %s", schema.Version())
	return schema
}

func resolveOrigin(prober ColumnProber, origin Origin, tables []string) OriginSchema {
	mapping := OriginSchema{Origin: origin, columns: make(map[ResearchField]string)}
	for _, t := range tables {
		if prober.HasTable(t) {
			mapping.Table = t
			break
		}
	}
	if mapping.Table == "" {
		mapping.Table = tables[0]
		for _, spec := range researchFieldSpecs {
			mapping.Missing = append(mapping.Missing, spec.field)
		}
		return mapping
	}

	mapping.Available = true
	if mapping.Table != tables[0] {
		mapping.Adapted = true
	}
	for _, spec := range researchFieldSpecs {
		found := false
		for i, col := range spec.candidates {
			if !prober.HasColumn(mapping.Table, col) {
				continue
			}
			mapping.columns[spec.field] = col
			if i > 0 {
				mapping.Adapted = true
			}
			found = true
			break
		}
		if found {
			continue
		}
		mapping.Missing = append(mapping.Missing, spec.field)
		if spec.required {
			mapping.Available = false
		}
	}
	sort.Slice(mapping.Missing, func(i, j int) bool { return mapping.Missing[i] < mapping.Missing[j] })
	if !mapping.Available {
		log.Printf("research schema: %s origin table %s lacks required fields %v", origin, mapping.Table, mapping.Missing)
	}
	return mapping
}
