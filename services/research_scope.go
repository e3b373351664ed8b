package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"research-registry-api/models"

	"gorm.io/gorm"
)

// VisibilityScope is what the caller's identity forces onto a listing. Empty strings mean
// "not forced".
type VisibilityScope struct {
	ForcedDepartment string
	ForcedCourse     string
	OwnerID          *int
}

// StaffDirectory resolves a reviewer's department from their profile.
type StaffDirectory interface {
	// StaffDepartment returns the canonical department name (empty when the profile has no
	// department link) and the legacy free-text department.
	StaffDepartment(ctx context.Context, staffID int) (canonical, legacy string, err error)
}

// ResolveVisibility derives the forced filters for a caller. It never fails: a scoped role
// whose department cannot be resolved simply gets no forced department.
func ResolveVisibility(ctx context.Context, caller CallerScope, dir StaffDirectory) VisibilityScope {
	switch caller.Role {
	case RoleAdmin:
		return VisibilityScope{}
	case RoleStaff:
		return VisibilityScope{ForcedDepartment: staffDepartment(ctx, caller, dir)}
	case RoleStudent:
		scope := VisibilityScope{
			ForcedDepartment: strings.TrimSpace(caller.Department),
			ForcedCourse:     strings.TrimSpace(caller.Course),
		}
		if caller.OwnID != nil {
			id := *caller.OwnID
			scope.OwnerID = &id
		}
		return scope
	}
	return VisibilityScope{}
}

func staffDepartment(ctx context.Context, caller CallerScope, dir StaffDirectory) string {
	fallback := strings.TrimSpace(caller.Department)
	if caller.OwnID == nil || dir == nil {
		return fallback
	}
	canonical, legacy, err := dir.StaffDepartment(ctx, *caller.OwnID)
	if err != nil {
		log.Printf("research scope: staff %d department unresolved, using session value %q: %v", *caller.OwnID, fallback, err)
		return fallback
	}
	if canonical = strings.TrimSpace(canonical); canonical != "" {
		return canonical
	}
	if legacy = strings.TrimSpace(legacy); legacy != "" {
		return legacy
	}
	return fallback
}

// StaffDepartment implements StaffDirectory.
func (s *GormLookupStore) StaffDepartment(ctx context.Context, staffID int) (string, string, error) {
	var staff models.Staff
	err := s.db.WithContext(ctx).Preload("DepartmentRef").
		Where("staff_id = ?", staffID).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("staff %d not found", staffID)
		}
		return "", "", err
	}
	canonical := ""
	if staff.DepartmentRef != nil {
		canonical = staff.DepartmentRef.Name
	}
	return canonical, staff.Department, nil
}
