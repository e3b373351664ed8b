package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"research-registry-api/config"
	"research-registry-api/middleware"
	"research-registry-api/models"
	"research-registry-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type LoginRequest struct {
	AccountType string `json:"account_type" binding:"required,oneof=student staff"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

var errInvalidCredentials = errors.New("invalid username or password")

// Login authenticates a student (by student number) or a staff account (by username) and
// issues an access token carrying the caller scope.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	username := utils.SanitizeInput(req.Username)

	var (
		claims  middleware.Claims
		profile gin.H
		err     error
	)
	switch req.AccountType {
	case "student":
		claims, profile, err = loginStudent(username, req.Password)
	default:
		claims, profile, err = loginStaff(username, req.Password)
	}
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, errInvalidCredentials) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	token, err := generateToken(claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    profile,
		"message": "Login successful",
	})
}

func loginStudent(studentNumber, password string) (middleware.Claims, gin.H, error) {
	var student models.Student
	if err := config.DB.Where("student_number = ?", studentNumber).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.Claims{}, nil, errInvalidCredentials
		}
		return middleware.Claims{}, nil, err
	}
	if !utils.CheckPasswordHash(password, student.Password) {
		return middleware.Claims{}, nil, errInvalidCredentials
	}
	if !student.IsVerified {
		return middleware.Claims{}, nil, errors.New("account is awaiting verification")
	}

	claims := middleware.Claims{
		UserID:     student.StudentID,
		Role:       "student",
		Department: student.Department,
		Course:     student.Course,
	}
	return claims, gin.H{
		"id":         student.StudentID,
		"name":       student.FullName(),
		"role":       "student",
		"department": student.Department,
		"course":     student.Course,
	}, nil
}

func loginStaff(username, password string) (middleware.Claims, gin.H, error) {
	var staff models.Staff
	if err := config.DB.Preload("DepartmentRef").Where("username = ?", username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.Claims{}, nil, errInvalidCredentials
		}
		return middleware.Claims{}, nil, err
	}
	if !utils.CheckPasswordHash(password, staff.Password) {
		return middleware.Claims{}, nil, errInvalidCredentials
	}
	if staff.IsArchived {
		return middleware.Claims{}, nil, errors.New("account is archived")
	}

	role := "staff"
	if strings.EqualFold(staff.Role, models.StaffRoleAdmin) {
		role = "admin"
	}
	department := staff.Department
	if staff.DepartmentRef != nil {
		department = staff.DepartmentRef.Name
	}

	claims := middleware.Claims{
		UserID:     staff.StaffID,
		Role:       role,
		Department: department,
	}
	return claims, gin.H{
		"id":         staff.StaffID,
		"name":       staff.FullName,
		"role":       role,
		"department": department,
	}, nil
}

// generateToken signs claims with JWT_SECRET for JWT_EXPIRE_HOURS (default 24).
func generateToken(claims middleware.Claims) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil || expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
