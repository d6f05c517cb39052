package interfaces

import "context"

// Repository defines the interface for data persistence
type Repository interface {
	Case() CaseRepository
	Identity() IdentityRepository
	Task() TaskRepository

	// Close releases backend resources
	Close(ctx context.Context) error
}
