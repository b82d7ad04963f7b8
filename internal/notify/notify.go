// Package notify turns confirmed meetings into outbound email jobs. Delivery
// is fire-and-forget: a queueing failure is logged, never surfaced to the
// meeting flow.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"mentormatch-service/internal/domain"
)

const (
	TaskMeetingConfirmed = "email:meeting_confirmed"

	TemplateMeetingConfirmed = "meeting_confirmed"
)

// EmailJob is the payload of one outbound email task.
type EmailJob struct {
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	Params     map[string]string `json:"params"`
}

// TaskEnqueuer is the slice of asynq.Client the dispatcher needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dispatcher struct {
	client TaskEnqueuer
	logger *slog.Logger
}

func NewDispatcher(client TaskEnqueuer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{client: client, logger: logger}
}

// MeetingConfirmed queues one confirmation email per party. The returned
// error reports a total enqueue failure; callers treat it as advisory.
func (d *Dispatcher) MeetingConfirmed(ctx context.Context, m *domain.Meeting) error {
	jobs := ConfirmationJobs(m)
	failed := 0
	for _, job := range jobs {
		payload, err := json.Marshal(job)
		if err != nil {
			d.logger.Error("marshal email job", "to", job.To, "error", err)
			failed++
			continue
		}
		task := asynq.NewTask(TaskMeetingConfirmed, payload)
		if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue("email")); err != nil {
			d.logger.Warn("enqueue confirmation email", "to", job.To, "error", err)
			failed++
		}
	}
	if failed == len(jobs) {
		return fmt.Errorf("no confirmation email queued for meeting %s", m.ID)
	}
	return nil
}

// ConfirmationJobs builds the per-party email jobs for a confirmed meeting.
func ConfirmationJobs(m *domain.Meeting) []EmailJob {
	date := m.MeetingDate.Format("Monday, January 2, 2006")
	base := map[string]string{
		"mentee_name":  m.MenteeName,
		"mentor_name":  m.MentorName,
		"meeting_date": date,
		"meeting_time": m.MeetingTime,
		"meet_link":    m.MeetLink,
	}
	menteeParams := map[string]string{"recipient_name": m.MenteeName}
	mentorParams := map[string]string{"recipient_name": m.MentorName}
	for k, v := range base {
		menteeParams[k] = v
		mentorParams[k] = v
	}
	return []EmailJob{
		{To: m.MenteeEmail, TemplateID: TemplateMeetingConfirmed, Params: menteeParams},
		{To: m.MentorEmail, TemplateID: TemplateMeetingConfirmed, Params: mentorParams},
	}
}
