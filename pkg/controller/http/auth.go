package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
)

// Headers set by the upstream authentication proxy
const (
	HeaderTenantID  = "X-Tenant-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// Authenticator resolves the caller of a request. Token verification lives
// outside this service; implementations adapt whatever the edge provides.
type Authenticator interface {
	Authenticate(r *http.Request) (*model.Actor, error)
}

// HeaderAuthenticator trusts identity headers injected by an authentication
// proxy. Only enable it behind a proxy that strips these headers from clients.
type HeaderAuthenticator struct{}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) (*model.Actor, error) {
	tenantID, err := tenantFromRequest(r)
	if err != nil {
		return nil, err
	}

	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return nil, goerr.New("missing user header")
	}

	role := types.Role(r.Header.Get(HeaderUserRole))
	if !role.In(types.RoleAdmin, types.RoleCEO, types.RoleTriage, types.RoleInvestigator, types.RoleUser) {
		return nil, goerr.New("unknown role", goerr.V(model.RoleKey, role))
	}

	return &model.Actor{
		ID:       types.UserID(userID),
		Role:     role,
		TenantID: tenantID,
		Name:     r.Header.Get(HeaderUserName),
		Email:    r.Header.Get(HeaderUserEmail),
	}, nil
}

// NoAuthn returns one fixed actor for every request. Local development only.
type NoAuthn struct {
	actor model.Actor
}

func NewNoAuthn(actor model.Actor) *NoAuthn {
	return &NoAuthn{actor: actor}
}

func (a *NoAuthn) Authenticate(r *http.Request) (*model.Actor, error) {
	tenantID, err := tenantFromRequest(r)
	if err != nil {
		return nil, err
	}
	actor := a.actor
	actor.TenantID = tenantID
	return &actor, nil
}

type actorContextKey struct{}

func contextWithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// actorFromContext returns the authenticated actor, or nil
func actorFromContext(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*model.Actor)
	return actor
}

// tenantFromRequest reads the tenant header, falling back to the default tenant
func tenantFromRequest(r *http.Request) (types.TenantID, error) {
	tenant := types.TenantID(r.Header.Get(HeaderTenantID))
	if tenant == "" {
		return types.DefaultTenantID, nil
	}
	if err := tenant.Validate(); err != nil {
		return "", goerr.Wrap(model.ErrValidation, "invalid tenant header", goerr.V(model.TenantIDKey, string(tenant)))
	}
	return tenant, nil
}

// authMiddleware rejects requests the authenticator cannot resolve
func authMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authn.Authenticate(r)
			if errors.Is(err, model.ErrValidation) {
				handleError(r.Context(), w, err)
				return
			}
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "authentication failed"), http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := contextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
