package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/examdesk/config"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/rs/zerolog/log"
)

// CapabilityAuthorTests is the role that may create and edit tests.
const CapabilityAuthorTests = "test_author"

const (
	ctxStudentID = "student_id"
	ctxRoles     = "roles"
)

// Claims issued by the identity provider. Subject is the student id.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(cfg *config.Config) *Authenticator {
	return &Authenticator{secret: []byte(cfg.Auth.JWTSecret)}
}

// Authenticate verifies the HS256 bearer token and stores the caller's identity on the context.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}
		claims, err := a.Parse(tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected bearer token")
			abort(c, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		c.Set(ctxStudentID, claims.Subject)
		c.Set(ctxRoles, claims.Roles)
		c.Next()
	}
}

func (a *Authenticator) Parse(tokenString string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// RequireCapability must run after Authenticate.
func RequireCapability(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(ctxRoles)
		granted, _ := roles.([]string)
		if !slices.Contains(granted, role) {
			abort(c, http.StatusForbidden, "Forbidden", "missing capability "+role)
			return
		}
		c.Next()
	}
}

// StudentID returns the authenticated caller, or "" outside Authenticate.
func StudentID(c *gin.Context) string {
	return c.GetString(ctxStudentID)
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

func abort(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message, Details: []string{details}})
}
