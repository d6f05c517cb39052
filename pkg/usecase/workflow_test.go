package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

func TestApplyAssignment(t *testing.T) {
	t.Run("triage moves new case to triage", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusNew}
		entered := usecase.ApplyAssignment(c, types.RoleTriage, "u-triage")
		gt.Bool(t, entered).False()
		gt.Value(t, c.Status).Equal(types.CaseStatusTriage)
		gt.Value(t, c.Assignments[types.RoleTriage]).Equal(types.UserID("u-triage"))
	})

	t.Run("investigator moves triage case to investigation", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusTriage}
		entered := usecase.ApplyAssignment(c, types.RoleInvestigator, "u-inv")
		gt.Bool(t, entered).True()
		gt.Value(t, c.Status).Equal(types.CaseStatusInvestigation)
	})

	t.Run("investigator on new case only records assignment", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusNew}
		entered := usecase.ApplyAssignment(c, types.RoleInvestigator, "u-inv")
		gt.Bool(t, entered).False()
		gt.Value(t, c.Status).Equal(types.CaseStatusNew)
		gt.Value(t, c.Assignments[types.RoleInvestigator]).Equal(types.UserID("u-inv"))
	})

	t.Run("reassigning triage is a no-op for status", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusNew}
		usecase.ApplyAssignment(c, types.RoleTriage, "u1")
		usecase.ApplyAssignment(c, types.RoleTriage, "u2")
		gt.Value(t, c.Status).Equal(types.CaseStatusTriage)
		gt.Value(t, c.Assignments[types.RoleTriage]).Equal(types.UserID("u2"))
	})

	t.Run("reassigning investigator does not re-enter investigation", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusTriage}
		gt.Bool(t, usecase.ApplyAssignment(c, types.RoleInvestigator, "u1")).True()
		gt.Bool(t, usecase.ApplyAssignment(c, types.RoleInvestigator, "u2")).False()
		gt.Value(t, c.Status).Equal(types.CaseStatusInvestigation)
	})
}

func TestApplyStatus(t *testing.T) {
	t.Run("valid status is set directly", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusNew}
		entered, err := usecase.ApplyStatus(c, types.CaseStatusClosed)
		gt.NoError(t, err)
		gt.Bool(t, entered).False()
		gt.Value(t, c.Status).Equal(types.CaseStatusClosed)
	})

	t.Run("entering investigation is reported once", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusTriage}
		entered, err := usecase.ApplyStatus(c, types.CaseStatusInvestigation)
		gt.NoError(t, err)
		gt.Bool(t, entered).True()

		entered, err = usecase.ApplyStatus(c, types.CaseStatusInvestigation)
		gt.NoError(t, err)
		gt.Bool(t, entered).False()
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		c := &model.Case{Status: types.CaseStatusNew}
		_, err := usecase.ApplyStatus(c, "unknown")
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
		gt.Value(t, c.Status).Equal(types.CaseStatusNew)
	})
}
