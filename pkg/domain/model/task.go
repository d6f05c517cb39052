package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// TaskID is a UUID-based identifier for Task
type TaskID string

// NewTaskID generates a new UUID v4 TaskID
func NewTaskID() TaskID {
	return TaskID(uuid.New().String())
}

// Task is one step of the investigation plan of a case
type Task struct {
	ID          TaskID           `json:"id" firestore:"id"`
	CaseID      CaseID           `json:"caseId" firestore:"caseId"`
	Title       string           `json:"title" firestore:"title"`
	Description string           `json:"description" firestore:"description"`
	DueDate     time.Time        `json:"dueDate" firestore:"dueDate"`
	Status      types.TaskStatus `json:"status" firestore:"status"`
	AssignedTo  *types.UserID    `json:"assignedTo" firestore:"assignedTo"`
	CompletedAt *time.Time       `json:"completedAt" firestore:"completedAt"`
}

// Copy returns a deep copy of the task
func (t *Task) Copy() *Task {
	copied := *t
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		copied.AssignedTo = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		copied.CompletedAt = &v
	}
	return &copied
}
