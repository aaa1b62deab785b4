package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dinehub-api/config"
	"dinehub-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the resolved role view of the authenticated user for
// this request: a plain customer, or staff of exactly one restaurant.
// Resolved once per request instead of probing nullable relations in
// every handler.
type Principal struct {
	UserID       uint
	IsStaff      bool
	RestaurantID uint // zero unless IsStaff
	IsAdmin      bool // restaurant manager; implies IsStaff
}

const principalKey = "principal"

// GenerateToken creates a signed JWT for a given user
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// AuthRequired validates the JWT and resolves the caller's Principal.
// Staff membership is read from the database, not the token, so firing
// an employee takes effect on their next request.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		p := Principal{UserID: claims.UserID}
		var emp models.Employee
		err = config.DB.Where("user_id = ?", claims.UserID).First(&emp).Error
		switch {
		case err == nil:
			p.IsStaff = true
			p.RestaurantID = emp.RestaurantID
			p.IsAdmin = emp.IsAdmin
		case errors.Is(err, gorm.ErrRecordNotFound):
			// plain customer
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve account"})
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// StaffRequired allows only employees; ManagerRequired additionally
// demands the is_admin flag.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func ManagerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if !p.IsStaff || !p.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Manager account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal extracts the resolved principal from context.
func GetPrincipal(c *gin.Context) Principal {
	val, _ := c.Get(principalKey)
	p, _ := val.(Principal)
	return p
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	return GetPrincipal(c).UserID
}
