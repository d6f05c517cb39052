package interfaces

import "github.com/secmon-lab/ouvidoria/pkg/domain/types"

// ListCaseOption is a functional option for filtering cases in List
type ListCaseOption func(*listCaseConfig)

type listCaseConfig struct {
	status    *types.CaseStatus
	createdBy *types.UserID
}

// WithStatus filters cases by status
func WithStatus(status types.CaseStatus) ListCaseOption {
	return func(c *listCaseConfig) {
		c.status = &status
	}
}

// WithCreatedBy filters cases by author
func WithCreatedBy(userID types.UserID) ListCaseOption {
	return func(c *listCaseConfig) {
		c.createdBy = &userID
	}
}

// BuildListCaseConfig builds a listCaseConfig from options
func BuildListCaseConfig(opts ...ListCaseOption) *listCaseConfig {
	cfg := &listCaseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listCaseConfig) Status() *types.CaseStatus {
	return c.status
}

// CreatedBy returns the author filter value, or nil if not set
func (c *listCaseConfig) CreatedBy() *types.UserID {
	return c.createdBy
}
