package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"research-registry-api/config"
	"research-registry-api/models"

	"gorm.io/gorm"
)

// Placeholder submitter names used when the owner cannot be resolved.
const (
	AdminSubmitterLabel   = "Admin"
	StudentSubmitterLabel = "Student"
)

// RatingAggregate is the average and count of reviews for one submission.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// EnrichedSubmission is a listing row with display fields attached.
type EnrichedSubmission struct {
	Submission
	SubmitterName string  `json:"submitter_name"`
	CourseLabel   string  `json:"course_label"`
	HasRating     bool    `json:"has_rating"`
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int     `json:"rating_count"`
}

// EnrichmentStore resolves display fields in batches.
type EnrichmentStore interface {
	StudentNames(ctx context.Context, ids []int) (map[int]string, error)
	RatingAggregates(ctx context.Context, keys []SubmissionKey) (map[SubmissionKey]RatingAggregate, error)
}

// Enrich attaches submitter names and ratings to a page using one lookup per batch. A
// failed lookup leaves its fields on placeholders; the page is always returned.
func Enrich(ctx context.Context, page []Submission, store EnrichmentStore, lookups *LookupResolver) []EnrichedSubmission {
	out := make([]EnrichedSubmission, len(page))
	if len(page) == 0 {
		return out
	}

	ownerSet := make(map[int]struct{})
	keys := make([]SubmissionKey, 0, len(page))
	for _, s := range page {
		if s.OwnerID != nil {
			ownerSet[*s.OwnerID] = struct{}{}
		}
		keys = append(keys, s.Key())
	}
	ownerIDs := make([]int, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}
	sort.Ints(ownerIDs)

	var names map[int]string
	var ratings map[SubmissionKey]RatingAggregate
	if store != nil {
		var err error
		if len(ownerIDs) > 0 {
			if names, err = store.StudentNames(ctx, ownerIDs); err != nil {
				log.Printf("research enrichment: student names unavailable: %v", err)
				names = nil
			}
		}
		if ratings, err = store.RatingAggregates(ctx, keys); err != nil {
			log.Printf("research enrichment: ratings unavailable: %v", err)
			ratings = nil
		}
	}

	for i, s := range page {
		row := EnrichedSubmission{
			Submission:    s,
			SubmitterName: AdminSubmitterLabel,
			CourseLabel:   lookups.CourseLabel(s.Department),
		}
		if s.OwnerID != nil {
			row.SubmitterName = StudentSubmitterLabel
			if name := strings.TrimSpace(names[*s.OwnerID]); name != "" {
				row.SubmitterName = name
			}
		}
		if agg, ok := ratings[s.Key()]; ok && agg.Count > 0 {
			row.HasRating = true
			row.RatingAverage = math.Round(agg.Average*10) / 10
			row.RatingCount = agg.Count
		}
		out[i] = row
	}
	return out
}

// GormEnrichmentStore reads student names and review aggregates.
type GormEnrichmentStore struct {
	db *gorm.DB
}

func NewGormEnrichmentStore(db *gorm.DB) *GormEnrichmentStore {
	if db == nil {
		db = config.DB
	}
	return &GormEnrichmentStore{db: db}
}

func (s *GormEnrichmentStore) StudentNames(ctx context.Context, ids []int) (map[int]string, error) {
	var students []models.Student
	err := s.db.WithContext(ctx).Model(&models.Student{}).
		Select("student_id, first_name, last_name").
		Where("student_id IN ?", ids).
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("student names: %w", err)
	}
	names := make(map[int]string, len(students))
	for _, st := range students {
		names[st.StudentID] = strings.TrimSpace(st.FullName())
	}
	return names, nil
}

func (s *GormEnrichmentStore) RatingAggregates(ctx context.Context, keys []SubmissionKey) (map[SubmissionKey]RatingAggregate, error) {
	byOrigin := make(map[Origin][]int)
	for _, k := range keys {
		byOrigin[k.Origin] = append(byOrigin[k.Origin], k.ID)
	}
	if len(byOrigin) == 0 {
		return map[SubmissionKey]RatingAggregate{}, nil
	}

	var clauses []string
	var args []interface{}
	for _, o := range []Origin{OriginAdmin, OriginStudent} {
		ids, ok := byOrigin[o]
		if !ok {
			continue
		}
		clauses = append(clauses, "(research_origin = ? AND research_id IN ?)")
		args = append(args, string(o), ids)
	}

	type row struct {
		ResearchOrigin string
		ResearchID     int
		Average        float64
		Total          int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.ResearchReview{}).
		Select("research_origin, research_id, AVG(rating) AS average, COUNT(*) AS total").
		Where(strings.Join(clauses, " OR "), args...).
		Group("research_origin, research_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rating aggregates: %w", err)
	}
	out := make(map[SubmissionKey]RatingAggregate, len(rows))
	for _, r := range rows {
		out[SubmissionKey{Origin: Origin(r.ResearchOrigin), ID: r.ResearchID}] = RatingAggregate{
			Average: r.Average,
			Count:   r.Total,
		}
	}
	return out, nil
}
