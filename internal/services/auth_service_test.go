package services

import (
	"context"
	"testing"
	"time"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func TestSignupHashesPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, repositories.ErrNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	service := NewAuthService(mockUserRepo, testAuthConfig())

	user, err := service.Signup(context.Background(), SignupInput{
		Name:      "Ana",
		Email:     "Ana@Example.com ",
		Password:  "correcthorse",
		Phone:     "+34600111222",
		AvatarURL: "https://cdn.example.com/ana.png",
		Role:      models.RoleParent,
	})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", user.Email)
	require.NotEqual(t, "correcthorse", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correcthorse")))
	require.Equal(t, "+34600111222", user.Phone)
	require.Equal(t, "https://cdn.example.com/ana.png", user.AvatarURL)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	service := NewAuthService(new(MockUserRepository), testAuthConfig())

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "short",
		Role:     models.RoleParent,
	})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(&models.User{ID: uuid.New(), Email: "ana@example.com"}, nil)

	service := NewAuthService(mockUserRepo, testAuthConfig())

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "correcthorse",
		Role:     models.RoleParent,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateIssuesTokenWithRoleClaim(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
	}
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "staff@example.com").Return(stored, nil)

	service := NewAuthService(mockUserRepo, testAuthConfig())

	user, tokenString, err := service.Authenticate(context.Background(), "staff@example.com", "correcthorse")
	require.NoError(t, err)
	require.Equal(t, stored.ID, user.ID)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, stored.ID.String(), claims["user_id"])
	require.Equal(t, string(models.RoleStaff), claims["role"])
}

func TestAuthenticateRejectsWrongPasswordAndUnknownEmail(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(&models.User{ID: uuid.New(), PasswordHash: string(hash)}, nil)
	mockUserRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repositories.ErrNotFound)

	service := NewAuthService(mockUserRepo, testAuthConfig())

	_, _, err = service.Authenticate(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Authenticate(context.Background(), "nobody@example.com", "correcthorse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
