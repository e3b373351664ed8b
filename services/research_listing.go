package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"
)

// Reasons the primary listing path was abandoned. Both send the request down the fallback
// path; only ErrPrimaryUnavailable is an operational problem.
var (
	ErrPrimaryUnavailable = errors.New("primary research listing unavailable")
	ErrNoPrimaryResults   = errors.New("primary research listing returned no rows")
)

// Values of ListingPage.FallbackReason.
const (
	FallbackReasonUnavailable = "primary_unavailable"
	FallbackReasonNoResults   = "no_primary_results"
	FallbackReasonFailed      = "fallback_failed"
)

// NoResultsNotice is shown whenever a listing page is empty.
const NoResultsNotice = "No research found."

// ListingPage is one page of the unified research catalogue. AcademicYear, Department and
// Course are the criteria actually applied, after forced scope; empty means unfiltered.
type ListingPage struct {
	Items          []EnrichedSubmission `json:"items"`
	TotalItems     int64                `json:"total_items"`
	CurrentPage    int                  `json:"current_page"`
	TotalPages     int                  `json:"total_pages"`
	PageSize       int                  `json:"page_size"`
	AcademicYear   string               `json:"academic_year"`
	Department     string               `json:"department"`
	Course         string               `json:"course"`
	UsedFallback   bool                 `json:"used_fallback"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
	Notice         string               `json:"notice,omitempty"`
}

// FallbackNotifier is told when the primary path failed for an operational reason.
type FallbackNotifier interface {
	PrimaryUnavailable(ctx context.Context, err error)
}

// ResearchListingService assembles the research catalogue for one caller.
type ResearchListingService struct {
	source     ResearchSource
	lookups    LookupStore
	staff      StaffDirectory
	enrichment EnrichmentStore
	notifier   FallbackNotifier
	now        func() time.Time
	pageSize   int
}

// ListingOption customises a ResearchListingService.
type ListingOption func(*ResearchListingService)

// WithClock replaces time.Now, which drives the default academic year.
func WithClock(now func() time.Time) ListingOption {
	return func(s *ResearchListingService) { s.now = now }
}

// WithFallbackNotifier registers a notifier for primary-path outages.
func WithFallbackNotifier(n FallbackNotifier) ListingOption {
	return func(s *ResearchListingService) { s.notifier = n }
}

func NewResearchListingService(source ResearchSource, lookups LookupStore, staff StaffDirectory, enrichment EnrichmentStore, opts ...ListingOption) *ResearchListingService {
	s := &ResearchListingService{
		source:     source,
		lookups:    lookups,
		staff:      staff,
		enrichment: enrichment,
		now:        time.Now,
		pageSize:   ResearchPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the requested page. It never fails: when both the primary and the fallback
// path fail the caller gets an empty page with a notice.
func (s *ResearchListingService) List(ctx context.Context, caller CallerScope, params ListingParams) ListingPage {
	scope := ResolveVisibility(ctx, caller, s.staff)
	criteria := BuildCriteria(scope, params, s.now())

	page, lookups, err := s.listPrimary(ctx, criteria)
	if err == nil {
		page.Items = Enrich(ctx, page.rows, s.enrichment, lookups)
		return page.ListingPage
	}

	reason := FallbackReasonNoResults
	if errors.Is(err, ErrPrimaryUnavailable) {
		reason = FallbackReasonUnavailable
		log.Printf("[%s] research listing: falling back for %s caller: %v", RequestIDFrom(ctx), caller.Role, err)
		if s.notifier != nil {
			s.notifier.PrimaryUnavailable(ctx, err)
		}
	}

	page, err = s.listFallback(ctx, criteria)
	if err != nil {
		log.Printf("[%s] research listing: fallback failed: %v", RequestIDFrom(ctx), err)
		return emptyPage(criteria, s.pageSize)
	}
	page.FallbackReason = reason
	page.Items = Enrich(ctx, page.rows, s.enrichment, lookups)
	return page.ListingPage
}

// assembledPage carries the raw rows until enrichment.
type assembledPage struct {
	ListingPage
	rows []Submission
}

// listPrimary unions both origins behind the gate, applies the lookup-backed overlay filter,
// then counts, clamps and slices. The resolver is returned even on ErrNoPrimaryResults so
// the fallback rows can be enriched with it.
func (s *ResearchListingService) listPrimary(ctx context.Context, c FilterCriteria) (assembledPage, *LookupResolver, error) {
	candidates, err := UnifySources(ctx, s.source, c.OwnerID)
	if err != nil {
		return assembledPage{}, nil, fmt.Errorf("%w: %w", ErrPrimaryUnavailable, err)
	}
	lookups, err := s.lookups.LoadLookups(ctx)
	if err != nil {
		return assembledPage{}, nil, fmt.Errorf("%w: %w", ErrPrimaryUnavailable, err)
	}

	matched := make([]Submission, 0, len(candidates))
	for _, sub := range candidates {
		if c.Matches(sub, lookups) {
			matched = append(matched, sub)
		}
	}
	total := int64(len(matched))
	if total == 0 {
		return assembledPage{}, lookups, ErrNoPrimaryResults
	}

	SortSubmissions(matched)
	current, totalPages := Paginate(total, c.Page, s.pageSize)
	start := (current - 1) * s.pageSize
	end := start + s.pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return assembledPage{
		ListingPage: ListingPage{
			TotalItems:   total,
			CurrentPage:  current,
			TotalPages:   totalPages,
			PageSize:     s.pageSize,
			AcademicYear: c.AcademicYear,
			Department:   c.Department,
			Course:       c.Course,
		},
		rows: matched[start:end],
	}, lookups, nil
}

// listFallback is the degraded path: administrator works only, Approved only, year and a
// best-effort department filter. Course and ownership are not applied.
func (s *ResearchListingService) listFallback(ctx context.Context, c FilterCriteria) (assembledPage, error) {
	q := c.Fallback()
	total, err := s.source.CountFallback(ctx, q)
	if err != nil {
		return assembledPage{}, fmt.Errorf("count fallback: %w", err)
	}
	current, totalPages := Paginate(total, c.Page, s.pageSize)

	page := assembledPage{
		ListingPage: ListingPage{
			TotalItems:   total,
			CurrentPage:  current,
			TotalPages:   totalPages,
			PageSize:     s.pageSize,
			AcademicYear: c.AcademicYear,
			Department:   c.Department,
			Course:       c.Course,
			UsedFallback: true,
		},
	}
	if total == 0 {
		page.Notice = NoResultsNotice
		return page, nil
	}

	rows, err := s.source.FetchFallbackPage(ctx, q, (current-1)*s.pageSize, s.pageSize)
	if err != nil {
		return assembledPage{}, fmt.Errorf("fetch fallback page: %w", err)
	}
	page.rows = rows
	return page, nil
}

func emptyPage(c FilterCriteria, pageSize int) ListingPage {
	return ListingPage{
		Items:          []EnrichedSubmission{},
		CurrentPage:    1,
		TotalPages:     1,
		PageSize:       pageSize,
		AcademicYear:   c.AcademicYear,
		Department:     c.Department,
		Course:         c.Course,
		UsedFallback:   true,
		FallbackReason: FallbackReasonFailed,
		Notice:         NoResultsNotice,
	}
}

// Paginate computes totalPages = max(1, ceil(total/pageSize)) and clamps requested into
// [1, totalPages].
func Paginate(total int64, requested, pageSize int) (current, totalPages int) {
	if pageSize < 1 {
		pageSize = ResearchPageSize
	}
	totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	current = requested
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	return current, totalPages
}

// SortSubmissions orders newest first; ties go to the higher id, then administrator rows.
func SortSubmissions(subs []Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		if a.ID != b.ID {
			return a.ID > b.ID
		}
		return a.Origin < b.Origin
	})
}
