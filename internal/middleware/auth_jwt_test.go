package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func mustMakeJWT(t *testing.T, secret string, sub string, role string, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
	}
	tok := jwt.NewWithClaims(method, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, cfg config.Config, authz string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := h(c)
	assert.NoError(t, err)
	return rec
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	rec := doRequest(t, cfg, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	rec := doRequest(t, cfg, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSignature(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	token := mustMakeJWT(t, "other-secret", "1", "CUSTOMER", jwt.SigningMethodHS256)
	rec := doRequest(t, cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ValidTokenSetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	token := mustMakeJWT(t, "secret", "42", "SELLER", jwt.SigningMethodHS256)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID int64
	var gotRole string
	h := middleware.AuthJWT(cfg)(func(c echo.Context) error {
		gotID, _ = c.Get(middleware.CtxUserIDKey).(int64)
		gotRole, _ = c.Get(middleware.CtxUserRoleKey).(string)
		return c.String(http.StatusOK, "ok")
	})

	err := h(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "SELLER", gotRole)
}

func TestRoleGuard_SellerRejectsCustomer(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	token := mustMakeJWT(t, "secret", "42", "CUSTOMER", jwt.SigningMethodHS256)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(cfg)(middleware.SellerRoleGuard()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	err := h(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleGuard_AdminAllowsAdmin(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	token := mustMakeJWT(t, "secret", "1", "ADMIN", jwt.SigningMethodHS256)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(cfg)(middleware.AdminRoleGuard()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	err := h(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
