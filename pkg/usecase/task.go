package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

type taskTemplate struct {
	title       string
	description string
	offsetDays  int
}

// investigationTasks is the checklist opened when a case enters investigation
var investigationTasks = []taskTemplate{
	{
		title:       "Avaliação preliminar",
		description: "Realizar avaliação preliminar da alegação, analisando seriedade e credibilidade e definindo se uma investigação completa é necessária.",
		offsetDays:  3,
	},
	{
		title:       "Determinar escopo da investigação",
		description: "Definir objetivos e escopo da investigação com base na avaliação preliminar: identificar se há violação de políticas ou leis, determinar período, local e pessoas envolvidas.",
		offsetDays:  5,
	},
	{
		title:       "Planejar investigação",
		description: "Elaborar plano de investigação contendo cronograma, recursos necessários, lista de pessoas a serem entrevistadas, fontes de evidências e potenciais riscos.",
		offsetDays:  7,
	},
	{
		title:       "Manter confidencialidade e emitir avisos",
		description: "Controlar o fluxo de informações de acordo com a necessidade de conhecer e emitir avisos de advertência por escrito ou verbal sobre a confidencialidade.",
		offsetDays:  8,
	},
	{
		title:       "Coletar e revisar documentos",
		description: "Obter, preservar e analisar documentos e dados relevantes, envolvendo TI ou consultores externos para dados eletrônicos quando necessário.",
		offsetDays:  14,
	},
	{
		title:       "Preparar entrevistas",
		description: "Listar entrevistados, preparar perguntas e agendar entrevistas garantindo privacidade, cultura local e técnicas adequadas.",
		offsetDays:  16,
	},
	{
		title:       "Conduzir entrevistas",
		description: "Realizar entrevistas de forma respeitosa, com registro adequado e confirmação das declarações pelos entrevistados.",
		offsetDays:  20,
	},
	{
		title:       "Elaborar relatório de investigação",
		description: "Compilar resultados, evidências e limitações em relatório claro e factual; obter apoio jurídico quando necessário.",
		offsetDays:  25,
	},
	{
		title:       "Propor medidas corretivas",
		description: "Realizar análise de causa-raiz, propor medidas corretivas provisórias e finais, e preparar plano para implementação.",
		offsetDays:  30,
	},
	{
		title:       "Monitorar aplicação das medidas",
		description: "Acompanhar a implementação das medidas corretivas, avaliar eficácia e ajustar o programa de compliance conforme necessário.",
		offsetDays:  40,
	},
}

// GenerateTasks builds the investigation checklist of a case. Due dates are
// offsets in days from start.
func GenerateTasks(caseID model.CaseID, start time.Time) []*model.Task {
	tasks := make([]*model.Task, 0, len(investigationTasks))
	for _, tmpl := range investigationTasks {
		tasks = append(tasks, &model.Task{
			ID:          model.NewTaskID(),
			CaseID:      caseID,
			Title:       tmpl.title,
			Description: tmpl.description,
			DueDate:     start.AddDate(0, 0, tmpl.offsetDays),
			Status:      types.TaskStatusPending,
		})
	}
	return tasks
}

type TaskUseCase struct {
	repo      interfaces.Repository
	directory interfaces.UserDirectory
	now       func() time.Time
}

func NewTaskUseCase(repo interfaces.Repository, directory interfaces.UserDirectory, now func() time.Time) *TaskUseCase {
	if now == nil {
		now = time.Now
	}
	return &TaskUseCase{
		repo:      repo,
		directory: directory,
		now:       now,
	}
}

// Generate stores the checklist for a case that entered investigation. A case
// gets its checklist once; later calls are no-ops.
func (uc *TaskUseCase) Generate(ctx context.Context, tenantID types.TenantID, caseID model.CaseID) error {
	tasks := GenerateTasks(caseID, uc.now())
	if err := uc.repo.Task().CreateBatch(ctx, tenantID, caseID, tasks); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			logging.From(ctx).Debug("investigation tasks already exist", "case_id", caseID)
			return nil
		}
		return goerr.Wrap(err, "failed to create investigation tasks",
			goerr.V(model.TenantIDKey, tenantID), goerr.V(model.CaseIDKey, caseID))
	}

	logging.From(ctx).Info("investigation tasks created", "case_id", caseID, "count", len(tasks))
	return nil
}

// ensureCase checks that the case exists in the actor's tenant
func (uc *TaskUseCase) ensureCase(ctx context.Context, actor *model.Actor, caseID model.CaseID) error {
	if _, err := uc.repo.Case().Get(ctx, actor.TenantID, caseID); err != nil {
		return goerr.Wrap(err, "failed to get case",
			goerr.V(model.TenantIDKey, actor.TenantID), goerr.V(model.CaseIDKey, caseID))
	}
	return nil
}

// List returns the checklist of a case, ordered by due date
func (uc *TaskUseCase) List(ctx context.Context, actor *model.Actor, caseID model.CaseID) ([]*model.Task, error) {
	if err := requirePrivileged(actor, "only privileged roles can read tasks"); err != nil {
		return nil, err
	}
	if err := uc.ensureCase(ctx, actor, caseID); err != nil {
		return nil, err
	}

	tasks, err := uc.repo.Task().List(ctx, actor.TenantID, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(model.CaseIDKey, caseID))
	}
	return tasks, nil
}

// Complete marks a task as done. Completing a done task keeps its completion time.
func (uc *TaskUseCase) Complete(ctx context.Context, actor *model.Actor, caseID model.CaseID, taskID model.TaskID) (*model.Task, error) {
	if err := requirePrivileged(actor, "only privileged roles can complete tasks"); err != nil {
		return nil, err
	}

	now := uc.now()
	task, err := uc.repo.Task().Update(ctx, actor.TenantID, caseID, taskID, func(t *model.Task) error {
		if t.Status == types.TaskStatusDone {
			return nil
		}
		t.Status = types.TaskStatusDone
		t.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to complete task",
			goerr.V(model.CaseIDKey, caseID), goerr.V(model.TaskIDKey, taskID))
	}
	return task, nil
}

// Assign sets the user responsible for a task
func (uc *TaskUseCase) Assign(ctx context.Context, actor *model.Actor, caseID model.CaseID, taskID model.TaskID, userID types.UserID) (*model.Task, error) {
	if err := requirePrivileged(actor, "only privileged roles can assign tasks"); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, errValidation("userId is required", goerr.V(model.TaskIDKey, taskID))
	}
	if err := checkUser(ctx, uc.directory, actor.TenantID, userID); err != nil {
		return nil, err
	}

	task, err := uc.repo.Task().Update(ctx, actor.TenantID, caseID, taskID, func(t *model.Task) error {
		t.AssignedTo = &userID
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign task",
			goerr.V(model.CaseIDKey, caseID), goerr.V(model.TaskIDKey, taskID))
	}
	return task, nil
}

// checkUser verifies userID against the directory when one is configured
func checkUser(ctx context.Context, directory interfaces.UserDirectory, tenantID types.TenantID, userID types.UserID) error {
	if directory == nil {
		return nil
	}
	ok, err := directory.Exists(ctx, tenantID, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up user", goerr.V("user_id", userID))
	}
	if !ok {
		return goerr.Wrap(model.ErrNotFound, "user not found",
			goerr.V(model.TenantIDKey, tenantID), goerr.V("user_id", userID))
	}
	return nil
}
