package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
	"github.com/IAmShivay/motorcarbackedn/internal/auth"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
)

// RegisterInput is the normalized registration payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// ProfilePatch is a partial update of the identity's own profile.
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// AuthService handles registration, authentication and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	UpdateProfile(ctx context.Context, user *model.User, patch ProfilePatch) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
	log        zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, bcryptCost int, log zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register creates a new user with a hashed password. Email is stored
// lowercase; duplicate email or username is a conflict.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.ErrConflict
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing, err := s.users.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.ErrConflict
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login authenticates a user and issues a token pair. Unknown email and bad
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, nil, apperrors.ErrUserInactive
	}

	pair, tokenID, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token pair: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), auth.RefreshTokenExpiry); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to stamp last login")
	}
	user.LastLoginAt = &now

	return pair, user, nil
}

// Refresh validates a refresh token against its signature and the
// whitelist, then issues a fresh access token for the subject.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.Subject {
		return "", apperrors.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.ErrUnauthenticated
	}
	if !user.Active {
		return "", apperrors.ErrUserInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token by removing its jti from the whitelist.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// UpdateProfile applies a partial update to the identity's own profile.
func (s *authService) UpdateProfile(ctx context.Context, user *model.User, patch ProfilePatch) (*model.User, error) {
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
