package ports

import (
	"time"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// IdentityVerifier resolves a capability token into a verified identity.
type IdentityVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// TokenIssuer mints short-lived capability tokens.
type TokenIssuer interface {
	IssueChannelToken(courierID string) (string, time.Time, error)
}
