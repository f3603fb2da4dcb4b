package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"attendance_backend/internal/events"
	"attendance_backend/platform/config"
	"attendance_backend/platform/logger"
)

// Worker consumes scheduled tasks and turns them into domain events.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	bus    events.Bus
	log    *logger.Logger
}

// NewWorker creates the asynq worker for the reminder queue.
func NewWorker(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskCourseDayReminder, w.handleCourseDayReminder)

	return w, nil
}

func (w *Worker) handleCourseDayReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCourseDayReminderPayload(task)
	if err != nil {
		return err
	}

	courseDayID, err := uuid.Parse(payload.CourseDayID)
	if err != nil {
		return err
	}

	return w.bus.PublishSync(ctx, events.CourseDayReminderDue{
		BaseEvent:   events.NewBaseEvent(),
		CourseDayID: courseDayID,
	})
}

// Run blocks processing tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
