package model

import "github.com/secmon-lab/ouvidoria/pkg/domain/types"

// Actor is the authenticated caller of an operation
type Actor struct {
	ID       types.UserID   `json:"id"`
	Role     types.Role     `json:"role"`
	TenantID types.TenantID `json:"tenantId"`
	Name     string         `json:"name"`
	Email    string         `json:"email" masq:"secret"`
}
