package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/tripweaver/tripweaver/app/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, username, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, username, email, passwordHash, role)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	args := m.Called(ctx, tokenHash)
	rec, _ := args.Get(0).(*RefreshTokenRecord)
	return rec, args.Error(1)
}

func (m *MockRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockRepository) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:           uuid.New(),
		Username:     "alex",
		Email:        "alex@example.com",
		PasswordHash: string(hashed),
		Role:         "user",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	var storedHash string
	repo.On("CreateUser", mock.Anything, "alex", "alex@example.com", mock.AnythingOfType("string"), "user").
		Run(func(args mock.Arguments) { storedHash = args.String(3) }).
		Return(&User{ID: uuid.New(), Username: "alex", Email: "alex@example.com"}, nil).Once()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("correct horse battery")))
	repo.AssertExpectations(t)
}

func TestRegisterConflict(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	repo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ErrConflict).Once()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())
	user := testUser(t, "secret-password")

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	tokens, err := svc.Login(context.Background(), user.Email, "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// The access token must carry the user's identity and verify against the
	// configured signing key.
	claims := &appMiddleware.Claims{}
	parsed, err := jwt.ParseWithClaims(tokens.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return appMiddleware.JwtSecretKey, nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	repo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())
	user := testUser(t, "secret-password")

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

	_, err := svc.Login(context.Background(), user.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrNotFound).Once()

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshSessionRotatesToken(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())
	user := testUser(t, "secret-password")

	oldToken := "deadbeef"
	oldHash := hashToken(oldToken)
	rec := &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: oldHash,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	repo.On("GetRefreshToken", mock.Anything, oldHash).Return(rec, nil).Once()
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
	repo.On("RevokeRefreshToken", mock.Anything, oldHash).Return(nil).Once()
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	tokens, err := svc.RefreshSession(context.Background(), oldToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, oldToken, tokens.RefreshToken)
	repo.AssertExpectations(t)
}

func TestRefreshSessionRejectsExpiredToken(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	token := "expired-token"
	rec := &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	repo.On("GetRefreshToken", mock.Anything, rec.TokenHash).Return(rec, nil).Once()

	_, err := svc.RefreshSession(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshSessionRejectsRevokedToken(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	token := "revoked-token"
	revokedAt := time.Now().Add(-time.Hour)
	rec := &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}
	repo.On("GetRefreshToken", mock.Anything, rec.TokenHash).Return(rec, nil).Once()

	_, err := svc.RefreshSession(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutRevokesTokenDigest(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())

	token := "some-refresh-token"
	repo.On("RevokeRefreshToken", mock.Anything, hashToken(token)).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), token))
	repo.AssertExpectations(t)
}
