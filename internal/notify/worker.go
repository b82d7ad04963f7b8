package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Mailer delivers a single email job through the external mail API.
type Mailer interface {
	Send(ctx context.Context, job EmailJob) error
}

// Worker drains the email queue and hands jobs to the mailer.
type Worker struct {
	server *asynq.Server
	mailer Mailer
	logger *slog.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, mailer Mailer, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"email":   6,
			"default": 3,
		},
	})
	return &Worker{server: server, mailer: mailer, logger: logger}
}

// Start runs the task server in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMeetingConfirmed, w.handleEmailTask)

	go func() {
		if err := w.server.Run(mux); err != nil {
			w.logger.Error("email worker stopped", "error", err)
		}
	}()
	w.logger.Info("email worker started")
	return nil
}

func (w *Worker) Stop() {
	w.server.Shutdown()
}

func (w *Worker) handleEmailTask(ctx context.Context, task *asynq.Task) error {
	var job EmailJob
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fmt.Errorf("decode email job: %v: %w", err, asynq.SkipRetry)
	}
	if err := w.mailer.Send(ctx, job); err != nil {
		w.logger.Warn("email delivery failed", "to", job.To, "template", job.TemplateID, "error", err)
		return err
	}
	w.logger.Info("email delivered", "to", job.To, "template", job.TemplateID)
	return nil
}
