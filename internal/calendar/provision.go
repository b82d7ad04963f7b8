package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"golang.org/x/oauth2"

	"mentormatch-service/internal/domain"
	"mentormatch-service/internal/meeting"
)

// TokenSource resolves a party key to a usable access token.
type TokenSource interface {
	Token(ctx context.Context, key string) (*oauth2.Token, error)
}

// Provisioner turns a confirmed meeting into a calendar event with a
// video-call link. Token paths are tried in a fixed order (mentor by id,
// mentor by email, mentee by id, mentee by email); when every path fails
// a synthetic link keeps the contract that MeetLink never returns empty.
type Provisioner struct {
	tokens     TokenSource
	events     EventCreator
	linkPrefix string
	logger     *slog.Logger
	randFloat  func() float64
}

func NewProvisioner(tokens TokenSource, events EventCreator, linkPrefix string, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		tokens:     tokens,
		events:     events,
		linkPrefix: linkPrefix,
		logger:     logger,
		randFloat:  rand.Float64,
	}
}

type tokenAttempt struct {
	name string
	key  string
	host domain.Role
}

// MeetLink provisions the meeting's video-call link. The mentor's calendar is
// preferred; the mentee's is the role-reversed fallback. Whichever side
// hosted, a plain mirror event is attempted on the other side's calendar for
// visibility only.
func (p *Provisioner) MeetLink(ctx context.Context, m *domain.Meeting) string {
	start, end, err := meeting.EventWindow(m.MeetingDate, m.MeetingTime)
	if err != nil {
		p.logger.Warn("unparseable meeting time, using synthetic link",
			"meeting_id", m.ID, "time", m.MeetingTime, "error", err)
		return p.syntheticLink()
	}

	spec := EventSpec{
		Summary: fmt.Sprintf("Mentoring session: %s & %s", m.MenteeName, m.MentorName),
		Description: fmt.Sprintf("Mentoring session between %s (mentee) and %s (mentor).",
			m.MenteeName, m.MentorName),
		Start:          start,
		End:            end,
		Attendees:      []string{m.MenteeEmail, m.MentorEmail},
		WithConference: true,
	}

	attempts := []tokenAttempt{
		{"mentor by id", m.MentorID, domain.RoleMentor},
		{"mentor by email", m.MentorEmail, domain.RoleMentor},
		{"mentee by id", m.MenteeID, domain.RoleMentee},
		{"mentee by email", m.MenteeEmail, domain.RoleMentee},
	}

	var link string
	var host domain.Role
	for _, att := range attempts {
		tok, err := p.tokens.Token(ctx, att.key)
		if err != nil {
			p.logger.Debug("token lookup failed", "attempt", att.name,
				"meeting_id", m.ID, "error", err)
			continue
		}
		got, err := p.events.Create(ctx, tok, spec)
		if err != nil {
			p.logger.Warn("event creation failed", "attempt", att.name,
				"meeting_id", m.ID, "error", err)
			continue
		}
		if got == "" {
			p.logger.Warn("event created without a conference link",
				"attempt", att.name, "meeting_id", m.ID)
			continue
		}
		link = got
		host = att.host
		p.logger.Info("calendar event provisioned", "attempt", att.name,
			"meeting_id", m.ID)
		break
	}

	if link == "" {
		link = p.syntheticLink()
		p.logger.Info("no calendar access for either party, generated link",
			"meeting_id", m.ID)
		return link
	}

	p.mirror(ctx, m, host.Other(), spec, link)
	return link
}

// mirror places a plain copy of the event on the non-hosting party's
// calendar. Purely for visibility; failures are ignored.
func (p *Provisioner) mirror(ctx context.Context, m *domain.Meeting, to domain.Role, spec EventSpec, link string) {
	spec.WithConference = false
	spec.Description = spec.Description + "\nJoin: " + link

	for _, key := range []string{m.PartyID(to), m.PartyEmail(to)} {
		tok, err := p.tokens.Token(ctx, key)
		if err != nil {
			continue
		}
		if _, err := p.events.Create(ctx, tok, spec); err == nil {
			return
		}
	}
}

const linkAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// syntheticLink builds a placeholder meeting URL: the configured prefix plus
// two 13-character segments, each the base-36 expansion of a random fraction.
func (p *Provisioner) syntheticLink() string {
	return p.linkPrefix + p.segment() + p.segment()
}

func (p *Provisioner) segment() string {
	f := p.randFloat()
	var b strings.Builder
	for i := 0; i < 13; i++ {
		f *= 36
		d := int(f)
		if d > 35 {
			d = 35
		}
		b.WriteByte(linkAlphabet[d])
		f -= float64(d)
	}
	return b.String()
}
