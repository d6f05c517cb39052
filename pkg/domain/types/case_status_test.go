package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

func TestCaseStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.CaseStatus
		want   bool
	}{
		{name: "novo", status: types.CaseStatusNew, want: true},
		{name: "triagem", status: types.CaseStatusTriage, want: true},
		{name: "em_investigacao", status: types.CaseStatusInvestigation, want: true},
		{name: "acoes", status: types.CaseStatusActions, want: true},
		{name: "encerrado", status: types.CaseStatusClosed, want: true},
		{name: "english name", status: types.CaseStatus("OPEN"), want: false},
		{name: "empty status", status: types.CaseStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.status.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseCaseStatus(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := types.ParseCaseStatus("em_investigacao")
		gt.NoError(t, err)
		gt.V(t, got).Equal(types.CaseStatusInvestigation)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := types.ParseCaseStatus("investigating")
		gt.Error(t, err)
	})
}

func TestAllCaseStatuses(t *testing.T) {
	statuses := types.AllCaseStatuses()
	gt.A(t, statuses).Length(5)
	gt.V(t, statuses[0]).Equal(types.CaseStatusNew)
	gt.V(t, statuses[4]).Equal(types.CaseStatusClosed)

	for _, status := range statuses {
		gt.B(t, status.IsValid()).
			Describef("Status %s should be valid", status).
			True()
	}
}
