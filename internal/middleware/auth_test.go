package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/auth"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
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

func testUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "ravi",
		Email:    "ravi@example.com",
		Role:     model.RoleUser,
		Active:   true,
	}
}

func newGuard(users *MockUserRepository) (*AuthGuard, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret", "motorcar-api", "motorcar-clients")
	return NewAuthGuard(jwtService, users), jwtService
}

func request(token string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

// okHandler records whether the chain reached it and what identity was bound.
func okHandler(reached *bool, identity **model.User) echo.HandlerFunc {
	return func(c echo.Context) error {
		*reached = true
		if identity != nil {
			user, _ := Identity(c)
			*identity = user
		}
		return c.NoContent(http.StatusOK)
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token binds the identity", func(t *testing.T) {
		user := testUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		guard, jwtService := newGuard(mockRepo)
		token, err := jwtService.GenerateAccessToken(user)
		assert.NoError(t, err)

		var reached bool
		var bound *model.User
		err = guard.RequireAuth()(okHandler(&reached, &bound))(request(token))

		assert.NoError(t, err)
		assert.True(t, reached)
		assert.Equal(t, user.ID, bound.ID)
	})

	t.Run("missing header is rejected with 401", func(t *testing.T) {
		guard, _ := newGuard(new(MockUserRepository))

		var reached bool
		err := guard.RequireAuth()(okHandler(&reached, nil))(request(""))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})

	t.Run("garbage token is rejected with 401", func(t *testing.T) {
		guard, _ := newGuard(new(MockUserRepository))

		var reached bool
		err := guard.RequireAuth()(okHandler(&reached, nil))(request("garbage"))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})

	t.Run("token for a missing user is rejected", func(t *testing.T) {
		user := testUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(nil, gorm.ErrRecordNotFound)

		guard, jwtService := newGuard(mockRepo)
		token, err := jwtService.GenerateAccessToken(user)
		assert.NoError(t, err)

		var reached bool
		err = guard.RequireAuth()(okHandler(&reached, nil))(request(token))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})

	t.Run("deactivated user is rejected", func(t *testing.T) {
		user := testUser()
		user.Active = false
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		guard, jwtService := newGuard(mockRepo)
		token, err := jwtService.GenerateAccessToken(user)
		assert.NoError(t, err)

		var reached bool
		err = guard.RequireAuth()(okHandler(&reached, nil))(request(token))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("no header proceeds anonymously", func(t *testing.T) {
		guard, _ := newGuard(new(MockUserRepository))

		var reached bool
		var bound *model.User
		err := guard.OptionalAuth()(okHandler(&reached, &bound))(request(""))

		assert.NoError(t, err)
		assert.True(t, reached)
		assert.Nil(t, bound)
	})

	t.Run("unresolvable token proceeds anonymously", func(t *testing.T) {
		guard, _ := newGuard(new(MockUserRepository))

		var reached bool
		var bound *model.User
		err := guard.OptionalAuth()(okHandler(&reached, &bound))(request("garbage"))

		assert.NoError(t, err)
		assert.True(t, reached)
		assert.Nil(t, bound)
	})

	t.Run("valid token binds the identity", func(t *testing.T) {
		user := testUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		guard, jwtService := newGuard(mockRepo)
		token, err := jwtService.GenerateAccessToken(user)
		assert.NoError(t, err)

		var reached bool
		var bound *model.User
		err = guard.OptionalAuth()(okHandler(&reached, &bound))(request(token))

		assert.NoError(t, err)
		assert.True(t, reached)
		assert.Equal(t, user.ID, bound.ID)
	})
}

func TestRequireRoles(t *testing.T) {
	guard, _ := newGuard(new(MockUserRepository))

	t.Run("matching role passes", func(t *testing.T) {
		c := request("")
		c.Set(identityKey, &model.User{ID: uuid.New(), Role: model.RoleAdmin})

		var reached bool
		err := guard.RequireRoles(model.RoleAdmin)(okHandler(&reached, nil))(c)

		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		c := request("")
		c.Set(identityKey, &model.User{ID: uuid.New(), Role: model.RoleUser})

		var reached bool
		err := guard.RequireRoles(model.RoleAdmin)(okHandler(&reached, nil))(c)

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
	})

	t.Run("no bound identity is unauthenticated", func(t *testing.T) {
		var reached bool
		err := guard.RequireRoles(model.RoleAdmin)(okHandler(&reached, nil))(request(""))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})
}
