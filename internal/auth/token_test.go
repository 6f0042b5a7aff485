package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lume-api/internal/models"
)

const testSecret = "unit-test-secret"

func TestIssueAndValidateToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user1", "alice@example.com", models.RoleOrganizer, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleOrganizer, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "user1", "alice@example.com", models.RoleAttendee, time.Hour)
	assert.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := IssueToken(testSecret, "user1", "alice@example.com", models.RoleAttendee, -time.Minute)
	assert.NoError(t, err)

	_, err = ValidateToken(testSecret, token)
	assert.Error(t, err)
}

func TestExtractTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractTokenFromRequest(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "token abc")
	_, err = ExtractTokenFromRequest(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "Bearer abc123")
	token, err := ExtractTokenFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Scheme matching is case-insensitive.
	req.Header.Set("Authorization", "bearer abc123")
	token, err = ExtractTokenFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestMiddlewareAndRoles(t *testing.T) {
	protected := func(w http.ResponseWriter, r *http.Request) {
		claims := FromContext(r.Context())
		assert.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
	}

	handler := Middleware(testSecret, nil)(RequireRole(models.RoleAdmin)(http.HandlerFunc(protected)))

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token, wrong role.
	organizerToken, err := IssueToken(testSecret, "user1", "o@example.com", models.RoleOrganizer, time.Hour)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+organizerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Valid token, admin role.
	adminToken, err := IssueToken(testSecret, "user2", "a@example.com", models.RoleAdmin, time.Hour)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := OptionalMiddleware(testSecret, nil)(next)

	// Anonymous callers pass through without claims.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	// A garbage token is ignored, not rejected.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	// A valid token populates the claims.
	token, err := IssueToken(testSecret, "user1", "o@example.com", models.RoleOrganizer, time.Hour)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "user1", seen.UserID)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
