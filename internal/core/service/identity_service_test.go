package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestIdentityService_ChannelTokenRoundTrip(t *testing.T) {
	svc := NewIdentityService(testSecret, time.Minute, "courier-tracking")

	tok, exp, err := svc.IssueChannelToken("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) > time.Minute || time.Until(exp) < 50*time.Second {
		t.Errorf("unexpected expiry %s", exp)
	}

	id, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "c1" || id.Role != domain.RoleCourier {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestIdentityService_VerifyUserIDFallback(t *testing.T) {
	svc := NewIdentityService(testSecret, 0, "")
	tok := signClaims(t, testSecret, jwt.MapClaims{
		"user_id": "u1",
		"role":    domain.RoleDispatcher,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "u1" || !id.IsDispatch() {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestIdentityService_VerifyRejections(t *testing.T) {
	svc := NewIdentityService(testSecret, 0, "")
	future := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": signClaims(t, "other", jwt.MapClaims{"sub": "c1", "role": "courier", "exp": future}),
		"expired":      signClaims(t, testSecret, jwt.MapClaims{"sub": "c1", "role": "courier", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no exp":       signClaims(t, testSecret, jwt.MapClaims{"sub": "c1", "role": "courier"}),
		"no subject":   signClaims(t, testSecret, jwt.MapClaims{"role": "courier", "exp": future}),
		"unknown role": signClaims(t, testSecret, jwt.MapClaims{"sub": "c1", "role": "client", "exp": future}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestIdentityService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewIdentityService(testSecret, 0, "")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "c1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIdentityService_IssueRequiresCourier(t *testing.T) {
	svc := NewIdentityService(testSecret, 0, "")
	if _, _, err := svc.IssueChannelToken(""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
