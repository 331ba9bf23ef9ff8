package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oklok/internal/auth"
	autherrors "oklok/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	loginFn        func(ctx context.Context, email, pin string) (string, string, auth.AuthResponse, error)
	quickLoginFn   func(ctx context.Context, pin string) (string, string, auth.AuthResponse, error)
	changePINFn    func(ctx context.Context, userID string, req auth.ChangePINRequest) error
	refreshTokenFn func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	getMeFn        func(ctx context.Context, userID string) (*auth.AuthResponse, error)
}

func (f *fakeService) Login(ctx context.Context, email, pin string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, pin)
}
func (f *fakeService) QuickLogin(ctx context.Context, pin string) (string, string, auth.AuthResponse, error) {
	return f.quickLoginFn(ctx, pin)
}
func (f *fakeService) ChangePIN(ctx context.Context, userID string, req auth.ChangePINRequest) error {
	return f.changePINFn(ctx, userID, req)
}
func (f *fakeService) RefreshToken(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshTokenFn(ctx, refreshToken)
}
func (f *fakeService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}

func TestHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		loginFn: func(ctx context.Context, email, pin string) (string, string, auth.AuthResponse, error) {
			assert.Equal(t, "sam@example.com", email)
			assert.Equal(t, "1234", pin)
			return "access", "refresh", auth.AuthResponse{ID: uuid.New().String(), Email: email, Role: "staff"}, nil
		},
	}

	h := auth.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"sam@example.com","pin":"1234"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)

	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
		assert.True(t, ck.HttpOnly)
	}
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		loginFn: func(ctx context.Context, email, pin string) (string, string, auth.AuthResponse, error) {
			return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
		},
	}

	h := auth.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"sam@example.com","pin":"0000"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestHandler_QuickLogin_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := auth.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/quick-login", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.QuickLogin(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RefreshToken_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := auth.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.RefreshToken(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Logout_ClearsCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := auth.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, ck := range w.Result().Cookies() {
		assert.Less(t, ck.MaxAge, 0)
	}
}
