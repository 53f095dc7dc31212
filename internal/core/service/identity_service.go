package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

const defaultChannelTokenTTL = 15 * time.Minute

// capabilityClaims is the token body shared with the authentication service.
// Older tokens carry the subject in user_id instead of sub.
type capabilityClaims struct {
	Role   string `json:"role"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// IdentityService verifies HS256 capability tokens and mints channel tokens.
type IdentityService struct {
	secret     []byte
	channelTTL time.Duration
	issuer     string
	now        func() time.Time
}

// NewIdentityService returns a verifier/issuer for secret. A non-positive
// channelTTL falls back to 15 minutes.
func NewIdentityService(secret string, channelTTL time.Duration, issuer string) *IdentityService {
	if channelTTL <= 0 {
		channelTTL = defaultChannelTokenTTL
	}
	return &IdentityService{
		secret:     []byte(secret),
		channelTTL: channelTTL,
		issuer:     issuer,
		now:        time.Now,
	}
}

// Verify parses token and returns the identity it carries. Expired, malformed
// or badly signed tokens yield domain.ErrUnauthorized.
func (s *IdentityService) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}

	claims := &capabilityClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	if id == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	switch claims.Role {
	case domain.RoleAdmin, domain.RoleDispatcher, domain.RoleCourier:
	default:
		return domain.Identity{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, claims.Role)
	}

	return domain.Identity{ID: id, Role: claims.Role}, nil
}

// IssueChannelToken mints a short-lived courier token for the pub/sub path.
func (s *IdentityService) IssueChannelToken(courierID string) (string, time.Time, error) {
	if courierID == "" {
		return "", time.Time{}, fmt.Errorf("%w: courier id is required", domain.ErrValidation)
	}
	return s.sign(courierID, domain.RoleCourier, s.channelTTL)
}

func (s *IdentityService) sign(subject, role string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := capabilityClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}
