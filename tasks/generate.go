package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"beautypage/models"

	"github.com/hibiken/asynq"
)

const TypeGenerateSchedule = "schedule:generate"

// GenerateSchedulePayload carries one queued pattern application.
type GenerateSchedulePayload struct {
	SpecialistID      string                `json:"specialistId"`
	Pattern           models.PatternRequest `json:"pattern"`
	OverwriteExisting bool                  `json:"overwriteExisting"`
}

func NewGenerateScheduleTask(payload GenerateSchedulePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeGenerateSchedule, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		// Repeat submissions for the same specialist and span collapse into one job.
		asynq.Unique(5 * time.Minute),
	}
	return task, opts, nil
}

// ParseGenerateSchedulePayload decodes a task body.
func ParseGenerateSchedulePayload(task *asynq.Task) (GenerateSchedulePayload, error) {
	var p GenerateSchedulePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeGenerateSchedule, err)
	}
	if p.SpecialistID == "" {
		return p, fmt.Errorf("invalid %s payload: missing specialistId", TypeGenerateSchedule)
	}
	return p, nil
}

// Enqueuer is the subset of *asynq.Client the handlers use.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
