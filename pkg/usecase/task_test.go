package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

func TestGenerateTasks(t *testing.T) {
	tasks := usecase.GenerateTasks("case-1", testNow)
	gt.Array(t, tasks).Length(10)

	offsets := []int{3, 5, 7, 8, 14, 16, 20, 25, 30, 40}
	ids := map[model.TaskID]bool{}
	for i, task := range tasks {
		gt.Value(t, task.CaseID).Equal(model.CaseID("case-1"))
		gt.Value(t, task.Status).Equal(types.TaskStatusPending)
		gt.Value(t, task.AssignedTo).Nil()
		gt.Value(t, task.DueDate).Equal(testNow.AddDate(0, 0, offsets[i]))
		gt.Value(t, task.Title).NotEqual("")
		ids[task.ID] = true
	}
	gt.Number(t, len(ids)).Equal(10)
	gt.Value(t, tasks[0].Title).Equal("Avaliação preliminar")
	gt.Value(t, tasks[9].Title).Equal("Monitorar aplicação das medidas")
}

func TestTaskUseCase(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)
	admin := newActor("admin", types.RoleAdmin)
	c := submit(t, uc, newActor("alice", types.RoleUser), true)

	_, err := uc.Case.SetStatus(ctx, admin, c.ID, types.CaseStatusInvestigation)
	gt.NoError(t, err).Required()

	tasks, err := uc.Task.List(ctx, admin, c.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(10)
	first := tasks[0]

	t.Run("complete is idempotent", func(t *testing.T) {
		done, err := uc.Task.Complete(ctx, admin, c.ID, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, done.Status).Equal(types.TaskStatusDone)
		gt.Value(t, done.CompletedAt).NotNil()
		gt.Value(t, *done.CompletedAt).Equal(testNow)

		again, err := uc.Task.Complete(ctx, admin, c.ID, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Status).Equal(types.TaskStatusDone)
		gt.Value(t, *again.CompletedAt).Equal(testNow)
	})

	t.Run("assign task", func(t *testing.T) {
		assigned, err := uc.Task.Assign(ctx, admin, c.ID, tasks[1].ID, "inv-1")
		gt.NoError(t, err).Required()
		gt.Value(t, assigned.AssignedTo).NotNil()
		gt.Value(t, *assigned.AssignedTo).Equal(types.UserID("inv-1"))
	})

	t.Run("user cannot touch tasks", func(t *testing.T) {
		user := newActor("alice", types.RoleUser)
		_, err := uc.Task.List(ctx, user, c.ID)
		gt.Bool(t, errors.Is(err, model.ErrPermissionDenied)).True()
		_, err = uc.Task.Complete(ctx, user, c.ID, first.ID)
		gt.Bool(t, errors.Is(err, model.ErrPermissionDenied)).True()
		_, err = uc.Task.Assign(ctx, user, c.ID, first.ID, "x")
		gt.Bool(t, errors.Is(err, model.ErrPermissionDenied)).True()
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := uc.Task.Complete(ctx, admin, c.ID, "missing")
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("tasks of missing case", func(t *testing.T) {
		_, err := uc.Task.List(ctx, admin, "missing")
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}
