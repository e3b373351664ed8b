package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"research-registry-api/config"

	"gorm.io/gorm"
)

// ErrResearchNotFound is returned when a view is recorded for an unknown or archived work.
var ErrResearchNotFound = errors.New("research not found")

// ViewCounter bumps the view count of a research work. Updates run outside any
// transaction; concurrent increments may be lost.
type ViewCounter struct {
	db     *gorm.DB
	schema *ResearchSchema
}

func NewViewCounter(db *gorm.DB, schema *ResearchSchema) *ViewCounter {
	if db == nil {
		db = config.DB
	}
	if schema == nil {
		schema = ResolveResearchSchema(NewGormColumnProber(db))
	}
	return &ViewCounter{db: db, schema: schema}
}

// Increment adds one view. Tables without a views column are left alone.
func (v *ViewCounter) Increment(ctx context.Context, origin Origin, id int) error {
	mapping := v.schema.Origin(origin)
	if !mapping.Available {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, mapping.Table)
	}
	viewsCol, ok := mapping.Column(FieldViews)
	if !ok {
		return nil
	}
	idCol, _ := mapping.Column(FieldID)
	statusCol, _ := mapping.Column(FieldStatus)

	res := v.db.WithContext(ctx).Table(mapping.Table).
		Where(fmt.Sprintf("`%s` = ? AND `%s` <> ?", idCol, statusCol), id, int(StatusArchived)).
		UpdateColumn(viewsCol, gorm.Expr(fmt.Sprintf("COALESCE(`%s`, 0) + 1", viewsCol)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrResearchNotFound
	}
	return nil
}

// IncrementAsync records a view without making the caller wait. The request context may
// be cancelled once the response is written, so the update runs on a detached one.
func (v *ViewCounter) IncrementAsync(ctx context.Context, origin Origin, id int) {
	bg := persistentContext(ctx)
	go func() {
		if err := v.Increment(bg, origin, id); err != nil {
			log.Printf("[%s] research views: %s/%d not incremented: %v", RequestIDFrom(bg), origin, id, err)
		}
	}()
}
