package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"research-registry-api/config"
	"research-registry-api/models"

	"gorm.io/gorm"
)

// ObservedYearSource lists academic-year labels found on research rows.
type ObservedYearSource interface {
	ObservedAcademicYears(ctx context.Context) ([]string, error)
}

// AcademicYearCatalog enumerates selectable academic-year spans.
type AcademicYearCatalog struct {
	db       *gorm.DB
	observed ObservedYearSource
	now      func() time.Time
}

func NewAcademicYearCatalog(db *gorm.DB, observed ObservedYearSource) *AcademicYearCatalog {
	if db == nil {
		db = config.DB
	}
	return &AcademicYearCatalog{db: db, observed: observed, now: time.Now}
}

// AcademicYearOptions is the payload of the academic-year endpoint.
type AcademicYearOptions struct {
	Spans   []string `json:"spans"`
	Default string   `json:"default"`
}

// Options merges the configured academic_years table with spans observed in either origin.
// The current default is always included. Observed spans are best effort.
func (c *AcademicYearCatalog) Options(ctx context.Context) (AcademicYearOptions, error) {
	var configured []string
	if err := c.db.WithContext(ctx).Model(&models.AcademicYear{}).
		Where("is_active = ?", true).
		Pluck("span", &configured).Error; err != nil {
		return AcademicYearOptions{}, fmt.Errorf("load academic years: %w", err)
	}

	var observed []string
	if c.observed != nil {
		labels, err := c.observed.ObservedAcademicYears(ctx)
		if err != nil {
			log.Printf("[%s] academic years: observed spans unavailable: %v", RequestIDFrom(ctx), err)
		}
		observed = labels
	}

	def := DefaultAcademicYearSpan(c.now())
	return AcademicYearOptions{
		Spans:   MergeAcademicYearSpans(configured, observed, []string{def}),
		Default: def,
	}, nil
}
