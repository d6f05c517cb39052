package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrValidation is returned when input violates a domain rule
	ErrValidation = goerr.New("validation failed")

	// ErrNotFound is returned when an entity does not exist in the tenant
	ErrNotFound = goerr.New("not found")

	// ErrPermissionDenied is returned when the actor's role or ownership does not allow the operation
	ErrPermissionDenied = goerr.New("permission denied")

	// ErrIntegrity is returned when an envelope cannot be authenticated or decoded
	ErrIntegrity = goerr.New("integrity check failed")

	// ErrAlreadyExists is returned when a write-once entity is written twice
	ErrAlreadyExists = goerr.New("already exists")

	// ErrAdapterParse is returned when a channel payload is not a report
	ErrAdapterParse = goerr.New("channel payload could not be parsed")
)

// Context keys attached to wrapped errors
const (
	CaseIDKey     = "case_id"
	TenantIDKey   = "tenant_id"
	TaskIDKey     = "task_id"
	IdentityIDKey = "identity_id"
	ActorIDKey    = "actor_id"
	RoleKey       = "role"
	ChannelKey    = "channel"
)
