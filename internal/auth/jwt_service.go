package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// AccessClaims are the claims embedded in access tokens.
type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the subject id plus the registered set.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenPair is the result of issuing credentials for an identity.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTService issues and verifies signed tokens.
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and the
// issuer/audience pair enforced on verification.
func NewJWTService(secret, issuer, audience string) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// GenerateAccessToken issues a short-lived token embedding the identity's
// id, email, username and role.
func (s *JWTService) GenerateAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := &AccessClaims{
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GenerateTokenPair issues an access/refresh token pair for the identity.
// The refresh token's jti is returned separately for whitelist storage.
func (s *JWTService) GenerateTokenPair(user *model.User) (pair *TokenPair, tokenID string, err error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	tokenID = uuid.New().String()
	refreshClaims := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return nil, "", err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(AccessTokenExpiry.Seconds()),
	}, tokenID, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
// Failures are classified as expired, invalid or malformed.
func (s *JWTService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if err := s.verifyIssuerAudience(&claims.RegisteredClaims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if err := s.verifyIssuerAudience(&claims.RegisteredClaims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return classify(err)
	}
	if !token.Valid {
		return apperrors.ErrTokenInvalid
	}
	return nil
}

func (s *JWTService) verifyIssuerAudience(claims *jwt.RegisteredClaims) error {
	if !claims.VerifyIssuer(s.issuer, true) {
		return apperrors.ErrTokenInvalid
	}
	if !claims.VerifyAudience(s.audience, true) {
		return apperrors.ErrTokenInvalid
	}
	return nil
}

// classify maps jwt library failures onto the error taxonomy so callers can
// branch on the kind.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return apperrors.ErrTokenInvalid
	default:
		return apperrors.ErrTokenMalformed
	}
}

// ExtractBearer accepts exactly the two-part "Bearer <token>" header form.
// Any other shape yields ok=false, which callers treat as "no token
// provided" rather than an error.
func ExtractBearer(header string) (token string, ok bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
