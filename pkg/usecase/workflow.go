package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// ApplyAssignment records the assignment on c and advances the workflow. A
// triage assignment moves a new case to triage, an investigator assignment moves
// a case in triage to investigation. It reports whether c entered investigation.
func ApplyAssignment(c *model.Case, role types.Role, userID types.UserID) bool {
	if c.Assignments == nil {
		c.Assignments = make(map[types.Role]types.UserID)
	}
	c.Assignments[role] = userID

	switch {
	case role == types.RoleTriage && c.Status == types.CaseStatusNew:
		c.Status = types.CaseStatusTriage
	case role == types.RoleInvestigator && c.Status == types.CaseStatusTriage:
		c.Status = types.CaseStatusInvestigation
		return true
	}
	return false
}

// ApplyStatus sets the status of c directly. It reports whether c entered investigation.
func ApplyStatus(c *model.Case, status types.CaseStatus) (bool, error) {
	if !status.IsValid() {
		return false, goerr.Wrap(model.ErrValidation, "invalid case status",
			goerr.V(model.CaseIDKey, c.ID), goerr.V("status", status))
	}
	entered := status == types.CaseStatusInvestigation && c.Status != types.CaseStatusInvestigation
	c.Status = status
	return entered, nil
}
