package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"mentormatch-service/internal/domain"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func confirmedMeeting() *domain.Meeting {
	return &domain.Meeting{
		ID:          "meeting-1",
		MenteeName:  "Ada",
		MenteeEmail: "ada@gmail.com",
		MentorName:  "Grace",
		MentorEmail: "grace@example.com",
		MeetingDate: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		MeetingTime: "1:00 PM",
		Status:      domain.MeetingConfirmed,
		MeetLink:    "https://meet.google.com/aaa-bbbb-ccc",
	}
}

func TestMeetingConfirmedEnqueuesBothParties(t *testing.T) {
	enq := &fakeEnqueuer{}
	d := NewDispatcher(enq, nil)

	if err := d.MeetingConfirmed(context.Background(), confirmedMeeting()); err != nil {
		t.Fatalf("MeetingConfirmed: %v", err)
	}
	if len(enq.tasks) != 2 {
		t.Fatalf("enqueued %d tasks, want 2", len(enq.tasks))
	}

	recipients := map[string]bool{}
	for _, task := range enq.tasks {
		if task.Type() != TaskMeetingConfirmed {
			t.Errorf("task type = %s, want %s", task.Type(), TaskMeetingConfirmed)
		}
		var job EmailJob
		if err := json.Unmarshal(task.Payload(), &job); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		recipients[job.To] = true
		if job.Params["meet_link"] != "https://meet.google.com/aaa-bbbb-ccc" {
			t.Errorf("meet_link param = %q", job.Params["meet_link"])
		}
		if job.Params["meeting_time"] != "1:00 PM" {
			t.Errorf("meeting_time param = %q", job.Params["meeting_time"])
		}
	}
	if !recipients["ada@gmail.com"] || !recipients["grace@example.com"] {
		t.Errorf("recipients = %v, want both parties", recipients)
	}
}

func TestMeetingConfirmedTotalFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	d := NewDispatcher(enq, nil)

	if err := d.MeetingConfirmed(context.Background(), confirmedMeeting()); err == nil {
		t.Fatal("expected an error when nothing could be queued")
	}
}

func TestConfirmationJobParams(t *testing.T) {
	jobs := ConfirmationJobs(confirmedMeeting())
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if jobs[0].Params["recipient_name"] != "Ada" {
		t.Errorf("mentee recipient_name = %q", jobs[0].Params["recipient_name"])
	}
	if jobs[1].Params["recipient_name"] != "Grace" {
		t.Errorf("mentor recipient_name = %q", jobs[1].Params["recipient_name"])
	}
	if jobs[0].Params["meeting_date"] != "Monday, August 31, 2026" {
		t.Errorf("meeting_date = %q", jobs[0].Params["meeting_date"])
	}
}

func TestServiceFor(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ada@gmail.com", "gmail"},
		{"ada@googlemail.com", "gmail"},
		{"grace@example.com", "default"},
		{"broken-address", "default"},
	}
	for _, tt := range tests {
		if got := ServiceFor(tt.email); got != tt.want {
			t.Errorf("ServiceFor(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
