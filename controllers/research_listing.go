// controllers/research_listing.go - Unified research catalogue

package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"research-registry-api/middleware"
	"research-registry-api/services"
	"research-registry-api/utils"

	"github.com/gin-gonic/gin"
)

// ResearchController serves the research catalogue endpoints.
type ResearchController struct {
	listing *services.ResearchListingService
	views   *services.ViewCounter
	years   *services.AcademicYearCatalog
	schema  *services.ResearchSchema
}

func NewResearchController(listing *services.ResearchListingService, views *services.ViewCounter, years *services.AcademicYearCatalog, schema *services.ResearchSchema) *ResearchController {
	return &ResearchController{listing: listing, views: views, years: years, schema: schema}
}

// ListResearch returns one page of the unified catalogue for the current caller.
// Engine failures degrade to an empty page; this handler does not return 5xx for them.
func (rc *ResearchController) ListResearch(c *gin.Context) {
	rawPage := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(rawPage)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(rawPage), "-"):
		// Too large for int; the listing clamps it to the last page.
		page = math.MaxInt
	case err != nil || page < 1:
		page = 1
	}

	params := services.ListingParams{
		Search:       utils.SanitizeInput(c.Query("search")),
		Department:   utils.SanitizeInput(c.DefaultQuery("department", "all")),
		Course:       utils.SanitizeInput(c.DefaultQuery("course", "all")),
		AcademicYear: utils.SanitizeInput(c.Query("academicYear")),
		Page:         page,
	}

	caller := middleware.CallerFromContext(c)
	result := rc.listing.List(c.Request.Context(), caller, params)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"research": result.Items,
		"pagination": gin.H{
			"current_page": result.CurrentPage,
			"per_page":     result.PageSize,
			"total_count":  result.TotalItems,
			"total_pages":  result.TotalPages,
			"has_next":     result.CurrentPage < result.TotalPages,
			"has_prev":     result.CurrentPage > 1,
		},
		"filters": gin.H{
			"search":        params.Search,
			"department":    filterEcho(result.Department),
			"course":        filterEcho(result.Course),
			"academic_year": result.AcademicYear,
		},
		"notice":          result.Notice,
		"used_fallback":   result.UsedFallback,
		"fallback_reason": result.FallbackReason,
	})
}

// filterEcho reports an unapplied filter as "all", the value the client sends for it.
func filterEcho(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

// RecordView bumps the view count in the background and answers immediately.
func (rc *ResearchController) RecordView(c *gin.Context) {
	origin, ok := services.ParseOrigin(c.Param("origin"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "origin must be admin or student"})
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid research id"})
		return
	}

	rc.views.IncrementAsync(c.Request.Context(), origin, id)
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// GetAcademicYears lists selectable academic-year spans and the current default.
func (rc *ResearchController) GetAcademicYears(c *gin.Context) {
	opts, err := rc.years.Options(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch academic years"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"years":   opts.Spans,
		"default": opts.Default,
	})
}

// GetSchema reports which physical tables and columns the catalogue resolved at startup.
func (rc *ResearchController) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": rc.schema.Version(),
		"origins": []services.OriginSchema{
			rc.schema.Origin(services.OriginAdmin),
			rc.schema.Origin(services.OriginStudent),
		},
	})
}

var errBadID = errors.New("invalid id")

func paramID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, errBadID
	}
	return id, nil
}
