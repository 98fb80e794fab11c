package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
	"github.com/IAmShivay/motorcarbackedn/internal/auth"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", "motorcar-api", "motorcar-clients")
}

func newAuthService(users *MockUserRepository, store *MockTokenStore) AuthService {
	return NewAuthService(users, newTestJWTService(), store, bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "ravi", Email: "Ravi@Example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ravi@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "ravi").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "duplicate email",
			input: RegisterInput{Username: "ravi", Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:  "duplicate username",
			input: RegisterInput{Username: "taken", Email: "new@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "taken").Return(&model.User{Username: "taken"}, nil)
			},
			expectedError: apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newAuthService(mockRepo, new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "ravi@example.com", user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.True(t, user.Active)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "password123", user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userID := uuid.New()

	activeUser := func() *model.User {
		return &model.User{
			ID:           userID,
			Username:     "ravi",
			Email:        "ravi@example.com",
			PasswordHash: string(hashed),
			Role:         model.RoleUser,
			Active:       true,
		}
	}

	t.Run("successful login issues a token pair and stamps last login", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockRepo.On("FindByEmail", mock.Anything, "ravi@example.com").Return(activeUser(), nil)
		mockRepo.On("UpdateLastLogin", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(nil)
		mockStore.On("StoreRefreshToken", mock.Anything, mock.Anything, userID.String(), auth.RefreshTokenExpiry).Return(nil)

		service := newAuthService(mockRepo, mockStore)
		pair, user, err := service.Login(context.Background(), "Ravi@Example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotNil(t, user.LastLoginAt)
		mockRepo.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := newAuthService(mockRepo, new(MockTokenStore))
		_, _, err := service.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "ravi@example.com").Return(activeUser(), nil)

		service := newAuthService(mockRepo, new(MockTokenStore))
		_, _, err := service.Login(context.Background(), "ravi@example.com", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := activeUser()
		inactive.Active = false

		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "ravi@example.com").Return(inactive, nil)

		service := newAuthService(mockRepo, new(MockTokenStore))
		_, _, err := service.Login(context.Background(), "ravi@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := newTestJWTService()
	user := &model.User{
		ID:       uuid.New(),
		Username: "ravi",
		Email:    "ravi@example.com",
		Role:     model.RoleUser,
		Active:   true,
	}

	issue := func(t *testing.T) (refreshToken, tokenID string) {
		t.Helper()
		pair, id, err := jwtService.GenerateTokenPair(user)
		assert.NoError(t, err)
		return pair.RefreshToken, id
	}

	t.Run("valid whitelisted token yields a fresh access token", func(t *testing.T) {
		refreshToken, tokenID := issue(t)

		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID.String(), nil)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := NewAuthService(mockRepo, jwtService, mockStore, bcrypt.MinCost, zerolog.Nop())
		accessToken, err := service.Refresh(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := jwtService.ValidateAccessToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		refreshToken, tokenID := issue(t)

		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return("", fmt.Errorf("refresh token not found"))

		service := NewAuthService(new(MockUserRepository), jwtService, mockStore, bcrypt.MinCost, zerolog.Nop())
		_, err := service.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("garbage token is malformed", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), bcrypt.MinCost, zerolog.Nop())
		_, err := service.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
	})

	t.Run("deactivated subject is rejected", func(t *testing.T) {
		refreshToken, tokenID := issue(t)
		inactive := *user
		inactive.Active = false

		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID.String(), nil)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(&inactive, nil)

		service := NewAuthService(mockRepo, jwtService, mockStore, bcrypt.MinCost, zerolog.Nop())
		_, err := service.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := newTestJWTService()
	user := &model.User{ID: uuid.New(), Username: "ravi", Email: "ravi@example.com", Role: model.RoleUser}

	pair, tokenID, err := jwtService.GenerateTokenPair(user)
	assert.NoError(t, err)

	mockStore := new(MockTokenStore)
	mockStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockStore, bcrypt.MinCost, zerolog.Nop())
	assert.NoError(t, service.Logout(context.Background(), pair.RefreshToken))
	mockStore.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	user := &model.User{ID: uuid.New(), Username: "ravi", Email: "ravi@example.com", FirstName: "Ravi"}

	mockRepo := new(MockUserRepository)
	mockRepo.On("Save", mock.Anything, user).Return(nil)

	first := "Ravindra"
	phone := "+91 98200 12345"
	service := newAuthService(mockRepo, new(MockTokenStore))
	updated, err := service.UpdateProfile(context.Background(), user, ProfilePatch{FirstName: &first, Phone: &phone})

	assert.NoError(t, err)
	assert.Equal(t, "Ravindra", updated.FirstName)
	assert.Equal(t, "+91 98200 12345", updated.Phone)
}
