package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// UserDirectory resolves users of a tenant. Used to check assignment targets.
type UserDirectory interface {
	// Exists reports whether userID is a known user of the tenant
	Exists(ctx context.Context, tenantID types.TenantID, userID types.UserID) (bool, error)
}
