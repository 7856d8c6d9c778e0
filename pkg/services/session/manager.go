package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
)

var (
	ErrMissingCredentials = errors.New("region credentials require api url, email and password")
	ErrMissingTenantID    = errors.New("user details returned no organization id")
	ErrTenantMismatch     = errors.New("assumed session belongs to a different tenant")
)

// IdentityAPI is the subset of the platform client used for the handoff.
type IdentityAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	AssumeRole(ctx context.Context, token, tenantID string) (string, error)
	FindUserDetails(ctx context.Context, token string) (api.UserDetails, error)
}

type Credentials struct {
	Region   domain.Region
	APIURL   string
	Email    string
	Password string
}

// Manager performs the two-step identity handoff of one region.
type Manager interface {
	ObtainPrivileged(ctx context.Context, creds Credentials) (*domain.PrivilegedSession, error)
	ObtainScoped(ctx context.Context, privileged *domain.PrivilegedSession, tenantID string) (*domain.ScopedSession, error)
}

type manager struct {
	identity IdentityAPI
}

func NewManager(identity IdentityAPI) Manager {
	return &manager{identity: identity}
}

// ObtainPrivileged logs in with the region's account. Failures are returned
// as *domain.AuthError.
func (m *manager) ObtainPrivileged(ctx context.Context, creds Credentials) (*domain.PrivilegedSession, error) {
	logger := zerolog.Ctx(ctx)

	if creds.APIURL == "" || creds.Email == "" || creds.Password == "" {
		return nil, &domain.AuthError{Region: creds.Region, Cause: ErrMissingCredentials}
	}

	logger.Info().Str("region", creds.Region.String()).Str("email", creds.Email).Msg("logging in")

	token, err := m.identity.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, &domain.AuthError{Region: creds.Region, Cause: err}
	}

	return domain.NewPrivilegedSession(creds.Region, creds.Email, token), nil
}

// ObtainScoped assumes the tenant role and verifies the new session with a
// call that carries only the scoped token. Failures are returned as
// *domain.ScopeError.
func (m *manager) ObtainScoped(
	ctx context.Context,
	privileged *domain.PrivilegedSession,
	tenantID string,
) (*domain.ScopedSession, error) {
	logger := zerolog.Ctx(ctx)

	if privileged == nil {
		return nil, &domain.ScopeError{TenantID: tenantID, Cause: domain.ErrNoPrivilegedSession}
	}

	token, err := m.identity.AssumeRole(ctx, privileged.Token(), tenantID)
	if err != nil {
		return nil, &domain.ScopeError{TenantID: tenantID, Cause: err}
	}

	details, err := m.identity.FindUserDetails(ctx, token)
	if err != nil {
		return nil, &domain.ScopeError{TenantID: tenantID, Cause: err}
	}
	if details.OrganizationID == "" {
		return nil, &domain.ScopeError{TenantID: tenantID, Cause: ErrMissingTenantID}
	}
	if details.OrganizationID != tenantID {
		return nil, &domain.ScopeError{
			TenantID: tenantID,
			Cause:    fmt.Errorf("%w: got %s", ErrTenantMismatch, details.OrganizationID),
		}
	}

	logger.Debug().
		Str("tenant", tenantID).
		Str("tenant_name", details.OrganizationName).
		Msg("role assumed")

	return domain.NewScopedSession(privileged.Region(), details.OrganizationID, details.OrganizationName, token), nil
}
