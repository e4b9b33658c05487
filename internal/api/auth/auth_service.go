package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/tripweaver/tripweaver/app/middleware"
)

const accessTokenTTL = 15 * time.Minute
const refreshTokenTTL = 7 * 24 * time.Hour

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("service", "Register"), slog.String("email", req.Email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hashed), "user")
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
			span.SetStatus(codes.Error, "user creation failed")
		}
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("service", "Login"), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Invalid credentials")
		return nil, ErrUnauthenticated
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))
	return tokens, nil
}

// RefreshSession rotates a refresh token: the presented token is revoked and
// a fresh access/refresh pair is issued. Expired or revoked tokens fail.
func (s *ServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	l := s.logger.With(slog.String("service", "RefreshSession"))

	rec, err := s.repo.GetRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		l.ErrorContext(ctx, "Failed to look up refresh token", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	if rec.RevokedAt != nil || time.Now().After(rec.ExpiresAt) {
		l.WarnContext(ctx, "Refresh token expired or revoked", slog.String("user_id", rec.UserID.String()))
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		span.RecordError(err)
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, rec.TokenHash); err != nil {
		l.WarnContext(ctx, "Failed to revoke rotated refresh token", slog.Any("error", err))
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "Session refreshed", slog.String("user_id", user.ID.String()))
	return tokens, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	return s.repo.RevokeRefreshToken(ctx, hashToken(refreshToken))
}

func (s *ServiceImpl) issueTokens(ctx context.Context, user *User) (*TokenResponse, error) {
	accessToken, err := generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.repo.StoreRefreshToken(ctx, user.ID, hashToken(refreshToken), time.Now().Add(refreshTokenTTL)); err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func generateAccessToken(user *User) (string, error) {
	now := time.Now()
	claims := appMiddleware.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(appMiddleware.JwtSecretKey)
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashToken digests a refresh token for storage so a database leak does not
// expose usable tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
