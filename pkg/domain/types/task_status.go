package types

// TaskStatus is the completion state of an investigation task
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}
