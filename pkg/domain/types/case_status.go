package types

import "fmt"

// CaseStatus is a step of the investigation workflow
type CaseStatus string

const (
	CaseStatusNew           CaseStatus = "novo"
	CaseStatusTriage        CaseStatus = "triagem"
	CaseStatusInvestigation CaseStatus = "em_investigacao"
	CaseStatusActions       CaseStatus = "acoes"
	CaseStatusClosed        CaseStatus = "encerrado"
)

// AllCaseStatuses returns all valid case statuses in workflow order
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusNew,
		CaseStatusTriage,
		CaseStatusInvestigation,
		CaseStatusActions,
		CaseStatusClosed,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusNew,
		CaseStatusTriage,
		CaseStatusInvestigation,
		CaseStatusActions,
		CaseStatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}
