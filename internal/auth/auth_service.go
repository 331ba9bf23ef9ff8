package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	autherrors "oklok/internal/auth/errors"
	"oklok/internal/shared/apperror"
	"oklok/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyPINHash is compared against when no user matches, so the failure
// path costs one bcrypt verification either way and response latency
// does not reveal whether a PIN exists.
const dummyPINHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, pin string) (accessToken, refreshToken string, resp AuthResponse, err error)
	QuickLogin(ctx context.Context, pin string) (accessToken, refreshToken string, resp AuthResponse, err error)
	ChangePIN(ctx context.Context, userID string, req ChangePINRequest) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	userRepo user.Repository
}

func NewService(userRepo user.Repository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Login(ctx context.Context, email, pin string) (string, string, AuthResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || !u.IsActive {
		bcrypt.CompareHashAndPassword([]byte(dummyPINHash), []byte(pin))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(pin)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// QuickLogin authenticates by PIN alone, before any tenant is known.
// Every active user's hash is a candidate; exactly one may match.
func (s *service) QuickLogin(ctx context.Context, pin string) (string, string, AuthResponse, error) {
	candidates, err := s.userRepo.FindAllActive(ctx)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	var matched *user.User
	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].PINHash), []byte(pin)) == nil {
			matched = &candidates[i]
			break
		}
	}

	if matched == nil {
		bcrypt.CompareHashAndPassword([]byte(dummyPINHash), []byte(pin))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issueTokens(matched)
}

// ChangePIN verifies identity with the current PIN before accepting the
// new one; the old hash is discarded immediately.
func (s *service) ChangePIN(ctx context.Context, userID string, req ChangePINRequest) error {
	if _, err := uuid.Parse(userID); err != nil {
		return autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return autherrors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(req.CurrentPIN)); err != nil {
		return autherrors.ErrCurrentPINMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPIN), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to hash PIN", http.StatusInternalServerError)
	}

	u.PINHash = string(hashed)
	return s.userRepo.Update(ctx, u)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(userIDStr); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.FindByID(ctx, userIDStr)
	if err != nil || !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	return s.issueTokens(u)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) issueTokens(u *user.User) (string, string, AuthResponse, error) {
	accessToken, err := s.generateToken(u.ID.String(), u.TenantID.String(), u.Role, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	refreshToken, err := s.generateToken(u.ID.String(), u.TenantID.String(), u.Role, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToResponse(u), nil
}

func (s *service) generateToken(userID, tenantID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"tenant_id": tenantID,
		"role":      role,
		"exp":       time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:       u.ID.String(),
		TenantID: u.TenantID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
}
