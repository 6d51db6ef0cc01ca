package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skyline-estates/api/internal/utils"
)

const testSecret = "test-secret-test-secret-test-secret"

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAdmin(testSecret), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return r
}

func doRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &utils.Claims{
		UserID: "64b5f0c2a2f4e6d8b9c0a1b2",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestRequireAdminMissingToken(t *testing.T) {
	if w := doRequest(t, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no credential: status = %d, want 401", w.Code)
	}
}

func TestRequireAdminMalformedToken(t *testing.T) {
	if w := doRequest(t, "not.a.token"); w.Code != http.StatusUnauthorized {
		t.Errorf("malformed credential: status = %d, want 401", w.Code)
	}
}

func TestRequireAdminExpiredToken(t *testing.T) {
	token := signToken(t, "admin", time.Now().Add(-time.Hour))
	if w := doRequest(t, token); w.Code != http.StatusUnauthorized {
		t.Errorf("expired credential: status = %d, want 401", w.Code)
	}
}

func TestRequireAdminWrongRole(t *testing.T) {
	token := signToken(t, "viewer", time.Now().Add(time.Hour))
	if w := doRequest(t, token); w.Code != http.StatusForbidden {
		t.Errorf("non-admin role: status = %d, want 403", w.Code)
	}
}

func TestRequireAdminWrongSecret(t *testing.T) {
	claims := &utils.Claims{UserID: "x", Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if w := doRequest(t, token); w.Code != http.StatusUnauthorized {
		t.Errorf("token signed with wrong secret: status = %d, want 401", w.Code)
	}
}

func TestRequireAdminValidToken(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "64b5f0c2a2f4e6d8b9c0a1b2", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	w := doRequest(t, token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid admin credential: status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}
