package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/examdesk/config"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator(&config.Config{Auth: config.Auth{JWTSecret: secret}})

	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/", auth.Authenticate())
	api.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, StudentID(c)) })
	api.POST("/admin", RequireCapability(CapabilityAuthorTests), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func claimsFor(sub string, roles ...string) Claims {
	return Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthenticate(t *testing.T) {
	r := newRouter()
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("student-42"))
	expired := claimsFor("student-42")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{name: "valid", token: valid, status: http.StatusOK},
		{name: "missing", token: "", status: http.StatusUnauthorized},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor("x")), status: http.StatusUnauthorized},
		{name: "expired", token: sign(t, jwt.SigningMethodHS256, []byte(secret), expired), status: http.StatusUnauthorized},
		{name: "no subject", token: sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("")), status: http.StatusUnauthorized},
		{name: "unsigned", token: sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor("x")), status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/me", tc.token)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}

	w := do(r, http.MethodGet, "/me", valid)
	if w.Body.String() != "student-42" {
		t.Fatalf("student id = %q", w.Body.String())
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestRequireCapability(t *testing.T) {
	r := newRouter()

	student := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("s1"))
	if w := do(r, http.MethodPost, "/admin", student); w.Code != http.StatusForbidden {
		t.Fatalf("student without role: status %d", w.Code)
	}

	author := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("a1", CapabilityAuthorTests))
	if w := do(r, http.MethodPost, "/admin", author); w.Code != http.StatusCreated {
		t.Fatalf("author: status %d", w.Code)
	}
}
