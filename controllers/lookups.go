package controllers

import (
	"errors"
	"net/http"

	"research-registry-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LookupController serves department and course/strand choices for the listing filters.
type LookupController struct {
	store *services.GormLookupStore
}

func NewLookupController(store *services.GormLookupStore) *LookupController {
	return &LookupController{store: store}
}

// GetDepartments returns active departments with their track type.
func (lc *LookupController) GetDepartments(c *gin.Context) {
	departments, err := lc.store.ListDepartments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch departments"})
		return
	}

	type row struct {
		DepartmentID int    `json:"department_id"`
		Name         string `json:"name"`
		Code         string `json:"code"`
		CourseLabel  string `json:"course_label"`
	}
	out := make([]row, 0, len(departments))
	for _, d := range departments {
		label := "Course"
		if d.IsSecondaryTrack() {
			label = "Strand"
		}
		out = append(out, row{DepartmentID: d.DepartmentID, Name: d.Name, Code: d.Code, CourseLabel: label})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": out})
}

// GetDepartmentCourses returns the courses, or strands, of one department.
func (lc *LookupController) GetDepartmentCourses(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid department id"})
		return
	}

	dept, label, options, err := lc.store.ListDepartmentCourses(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "department not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch courses"})
		return
	}
	if options == nil {
		options = []services.LookupOption{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"department":   dept,
		"course_label": label,
		"courses":      options,
	})
}
