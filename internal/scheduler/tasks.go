package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCourseDayReminder = "coursedays.reminder"

type CourseDayReminderPayload struct {
	CourseDayID string `json:"courseDayId"`
}

func NewCourseDayReminderTask(payload CourseDayReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCourseDayReminder, data), nil
}

func ParseCourseDayReminderPayload(task *asynq.Task) (CourseDayReminderPayload, error) {
	var payload CourseDayReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CourseDayReminderPayload{}, err
	}
	return payload, nil
}

func reminderTaskID(courseDayID string) string {
	return "coursedays:reminder:" + courseDayID
}
