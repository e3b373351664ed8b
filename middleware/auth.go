package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"research-registry-api/config"
	"research-registry-api/models"
	"research-registry-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session snapshot carried by access tokens. Department and Course are the
// caller's labels at login time.
type Claims struct {
	UserID     int    `json:"user_id"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Course     string `json:"course,omitempty"`
	jwt.RegisteredClaims
}

const callerScopeKey = "callerScope"

var errInvalidHeader = errors.New("invalid authorization header format")

func parseBearer(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errInvalidHeader
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// accountActive checks that the account behind the token still exists.
func accountActive(claims *Claims) bool {
	switch services.ParseRole(claims.Role) {
	case services.RoleStudent:
		var student models.Student
		return config.DB.Select("student_id").
			Where("student_id = ? AND is_verified = ?", claims.UserID, true).
			First(&student).Error == nil
	case services.RoleAdmin, services.RoleStaff:
		var staff models.Staff
		return config.DB.Select("staff_id").
			Where("staff_id = ? AND is_archived = ?", claims.UserID, false).
			First(&staff).Error == nil
	}
	return false
}

func setCaller(c *gin.Context, claims *Claims) {
	id := claims.UserID
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	SetCaller(c, services.CallerScope{
		Role:       services.ParseRole(claims.Role),
		OwnID:      &id,
		Department: claims.Department,
		Course:     claims.Course,
	})
}

// SetCaller stores the CallerScope read back by CallerFromContext.
func SetCaller(c *gin.Context, scope services.CallerScope) {
	c.Set(callerScopeKey, scope)
}

// AuthMiddleware validates the JWT and rejects anonymous requests.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is required"})
			c.Abort()
			return
		}

		claims, err := parseBearer(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			c.Abort()
			return
		}
		if !accountActive(claims) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Account not found"})
			c.Abort()
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through as RoleAnonymous but still rejects a
// malformed or expired token.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			SetCaller(c, services.CallerScope{Role: services.RoleAnonymous})
			c.Next()
			return
		}

		claims, err := parseBearer(c)
		if err != nil || !accountActive(claims) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

// RequireRole checks the caller's role against the allowed list.
func RequireRole(roles ...services.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFromContext(c)
		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		c.Abort()
	}
}

// CallerFromContext returns the request's CallerScope, anonymous when none was set.
func CallerFromContext(c *gin.Context) services.CallerScope {
	if v, ok := c.Get(callerScopeKey); ok {
		if scope, ok := v.(services.CallerScope); ok {
			return scope
		}
	}
	return services.CallerScope{Role: services.RoleAnonymous}
}
