// Package meeting owns the lifecycle of a meeting record from proposal
// through dual approval to confirmation. It is the only writer of the
// approval flags.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mentormatch-service/internal/availability"
	"mentormatch-service/internal/domain"
)

// Store is the pending/confirmed collection pair. UpdatePending is a
// conditional write: it must fail with domain.ErrConflict when the stored
// revision no longer matches expectedRevision, and advance the record's
// revision on success. Promote must insert the confirmed record and delete
// the pending one atomically.
type Store interface {
	CreatePending(ctx context.Context, m *domain.Meeting) error
	GetPending(ctx context.Context, id string) (*domain.Meeting, error)
	UpdatePending(ctx context.Context, m *domain.Meeting, expectedRevision int64) error
	Promote(ctx context.Context, confirmed *domain.Meeting) error
	GetConfirmed(ctx context.Context, id string) (*domain.Meeting, error)
	PendingForParty(ctx context.Context, partyID string) ([]domain.Meeting, error)
	ConfirmedForParty(ctx context.Context, partyID string) ([]domain.Meeting, error)
}

// LinkProvisioner obtains a video-call link for a confirmed meeting. It must
// always return a usable link, falling back to a synthetic one.
type LinkProvisioner interface {
	MeetLink(ctx context.Context, m *domain.Meeting) string
}

// Notifier delivers confirmation messages to both parties.
type Notifier interface {
	MeetingConfirmed(ctx context.Context, m *domain.Meeting) error
}

// Directory resolves party profiles for names, emails, and availability.
type Directory interface {
	Mentor(ctx context.Context, id string) (*domain.MentorProfile, error)
	Mentee(ctx context.Context, id string) (*domain.MenteeProfile, error)
}

// Writers racing on the same record converge after one reload; the bound
// exists so a pathological store cannot loop forever.
const maxUpdateRetries = 5

type Scheduler struct {
	store    Store
	links    LinkProvisioner
	notifier Notifier
	profiles Directory
	logger   *slog.Logger
	now      func() time.Time
}

func NewScheduler(store Store, links LinkProvisioner, notifier Notifier, profiles Directory, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:    store,
		links:    links,
		notifier: notifier,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateParams struct {
	ProposedBy domain.Role
	MenteeID   string
	MentorID   string
	Date       time.Time
	TimeLabel  string
}

// Create opens a negotiation: the proposer's approval flag starts true, the
// counterpart's false.
func (s *Scheduler) Create(ctx context.Context, p CreateParams) (*domain.Meeting, error) {
	if !p.ProposedBy.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "must be mentor or mentee"}
	}
	mentee, err := s.profiles.Mentee(ctx, p.MenteeID)
	if err != nil {
		return nil, fmt.Errorf("load mentee %s: %w", p.MenteeID, err)
	}
	mentor, err := s.profiles.Mentor(ctx, p.MentorID)
	if err != nil {
		return nil, fmt.Errorf("load mentor %s: %w", p.MentorID, err)
	}

	counterpartAv := mentor.Availability
	if p.ProposedBy == domain.RoleMentor {
		counterpartAv = mentee.Availability
	}
	if err := s.validateSlot(p.Date, p.TimeLabel, counterpartAv); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	m := &domain.Meeting{
		ID:          uuid.NewString(),
		MenteeID:    mentee.ID,
		MenteeName:  mentee.Name,
		MenteeEmail: mentee.Email,
		MentorID:    mentor.ID,
		MentorName:  mentor.Name,
		MentorEmail: mentor.Email,
		MeetingDate: p.Date.UTC().Truncate(24 * time.Hour),
		MeetingTime: p.TimeLabel,
		Status:      domain.MeetingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.SetApproved(p.ProposedBy, true)

	if err := s.store.CreatePending(ctx, m); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	s.logger.Info("meeting proposed",
		"meeting_id", m.ID, "proposed_by", p.ProposedBy,
		"date", m.MeetingDate.Format("2006-01-02"), "time", m.MeetingTime)
	return m, nil
}

// Approve sets the approver's flag and, when this write completes the second
// flag, finalizes the meeting. A repeat approve by the same role is a no-op.
// Once a meeting is finalized the pending record is gone, so any later
// approve fails with domain.ErrNotFound.
func (s *Scheduler) Approve(ctx context.Context, id string, role domain.Role) (*domain.Meeting, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "must be mentor or mentee"}
	}
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		m, err := s.store.GetPending(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("approve meeting %s: %w", id, err)
		}
		if m.Approved(role) {
			if m.Approved(role.Other()) {
				// Both flags set but the record is still pending: an
				// earlier finalize failed after the approval was
				// written. Run it again.
				return s.finalize(ctx, m)
			}
			return m, nil
		}

		expected := m.Revision
		m.SetApproved(role, true)
		m.UpdatedAt = s.now().UTC()
		err = s.store.UpdatePending(ctx, m, expected)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("approve meeting %s: %w", id, err)
		}

		// Only the writer whose guarded update observed the counterpart's
		// flag already set finalizes.
		if m.Approved(role.Other()) {
			return s.finalize(ctx, m)
		}
		return m, nil
	}
	return nil, fmt.Errorf("approve meeting %s: too many concurrent updates: %w", id, domain.ErrConflict)
}

// Propose replaces the slot with a counter-proposal: the proposer's flag is
// set and the counterpart's is reset, so a propose can never finalize.
func (s *Scheduler) Propose(ctx context.Context, id string, role domain.Role, date time.Time, timeLabel string) (*domain.Meeting, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "must be mentor or mentee"}
	}
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		m, err := s.store.GetPending(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("propose on meeting %s: %w", id, err)
		}

		counterpartAv, err := s.counterpartAvailability(ctx, m, role)
		if err != nil {
			return nil, err
		}
		if err := s.validateSlot(date, timeLabel, counterpartAv); err != nil {
			return nil, err
		}

		expected := m.Revision
		m.MeetingDate = date.UTC().Truncate(24 * time.Hour)
		m.MeetingTime = timeLabel
		m.SetApproved(role, true)
		m.SetApproved(role.Other(), false)
		m.UpdatedAt = s.now().UTC()
		err = s.store.UpdatePending(ctx, m, expected)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("propose on meeting %s: %w", id, err)
		}
		s.logger.Info("meeting slot re-proposed",
			"meeting_id", m.ID, "proposed_by", role,
			"date", m.MeetingDate.Format("2006-01-02"), "time", m.MeetingTime)
		return m, nil
	}
	return nil, fmt.Errorf("propose on meeting %s: too many concurrent updates: %w", id, domain.ErrConflict)
}

// Get looks a meeting up in the pending collection first, then confirmed.
func (s *Scheduler) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	m, err := s.store.GetPending(ctx, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.store.GetConfirmed(ctx, id)
}

// ListForParty returns a party's pending and confirmed meetings.
func (s *Scheduler) ListForParty(ctx context.Context, partyID string) (pending, confirmed []domain.Meeting, err error) {
	pending, err = s.store.PendingForParty(ctx, partyID)
	if err != nil {
		return nil, nil, err
	}
	confirmed, err = s.store.ConfirmedForParty(ctx, partyID)
	if err != nil {
		return nil, nil, err
	}
	return pending, confirmed, nil
}

// finalize runs the one-time confirmation side effects: obtain a link, move
// the record to the confirmed collection, then notify best-effort. A failed
// promote leaves the pending record in place so the approval can be retried.
func (s *Scheduler) finalize(ctx context.Context, m *domain.Meeting) (*domain.Meeting, error) {
	link := s.links.MeetLink(ctx, m)

	now := s.now().UTC()
	confirmed := *m
	confirmed.Status = domain.MeetingConfirmed
	confirmed.MeetLink = link
	confirmed.ConfirmedAt = &now
	confirmed.UpdatedAt = now

	if err := s.store.Promote(ctx, &confirmed); err != nil {
		return nil, fmt.Errorf("confirm meeting %s: %w", m.ID, err)
	}
	s.logger.Info("meeting confirmed", "meeting_id", confirmed.ID, "meet_link", link)

	if err := s.notifier.MeetingConfirmed(ctx, &confirmed); err != nil {
		// The meeting stays confirmed even when the emails do not go out.
		s.logger.Warn("confirmation notification failed",
			"meeting_id", confirmed.ID, "error", err)
	}
	return &confirmed, nil
}

func (s *Scheduler) counterpartAvailability(ctx context.Context, m *domain.Meeting, proposer domain.Role) (domain.Availability, error) {
	if proposer == domain.RoleMentee {
		mentor, err := s.profiles.Mentor(ctx, m.MentorID)
		if err != nil {
			return nil, fmt.Errorf("load mentor %s: %w", m.MentorID, err)
		}
		return mentor.Availability, nil
	}
	mentee, err := s.profiles.Mentee(ctx, m.MenteeID)
	if err != nil {
		return nil, fmt.Errorf("load mentee %s: %w", m.MenteeID, err)
	}
	return mentee.Availability, nil
}

// validateSlot enforces the time grammar, the two-week browse window, and
// day-level counterpart availability before any record is written.
func (s *Scheduler) validateSlot(date time.Time, timeLabel string, counterpartAv domain.Availability) error {
	if err := ValidateTimeLabel(timeLabel); err != nil {
		return err
	}
	if !availability.Browse(s.now()).Contains(date) {
		return &domain.ValidationError{Field: "meeting_date",
			Message: "date is outside the bookable two-week window"}
	}
	if !availability.IsAvailable(counterpartAv, date) {
		return &domain.ValidationError{Field: "meeting_date",
			Message: "counterpart has no availability on " + date.UTC().Weekday().String()}
	}
	return nil
}
