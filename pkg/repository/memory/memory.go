package memory

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	caseRepo *caseRepository
	identity *identityRepository
	task     *taskRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		caseRepo: newCaseRepository(),
		identity: newIdentityRepository(),
		task:     newTaskRepository(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Identity() interfaces.IdentityRepository {
	return m.identity
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}
