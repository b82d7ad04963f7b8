package calendar

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"mentormatch-service/internal/domain"
)

type fakeTokens struct {
	byKey map[string]*oauth2.Token
}

func (f *fakeTokens) Token(_ context.Context, key string) (*oauth2.Token, error) {
	tok, ok := f.byKey[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tok, nil
}

type createCall struct {
	accessToken string
	spec        EventSpec
}

type fakeEvents struct {
	calls []createCall
	// linkFor maps an access token to the link to return; missing entries
	// fail the creation.
	linkFor map[string]string
}

func (f *fakeEvents) Create(_ context.Context, tok *oauth2.Token, spec EventSpec) (string, error) {
	f.calls = append(f.calls, createCall{accessToken: tok.AccessToken, spec: spec})
	link, ok := f.linkFor[tok.AccessToken]
	if !ok {
		return "", errors.New("calendar api unavailable")
	}
	return link, nil
}

func testMeeting() *domain.Meeting {
	return &domain.Meeting{
		ID:          "meeting-1",
		MenteeID:    "mentee-1",
		MenteeName:  "Ada",
		MenteeEmail: "ada@example.com",
		MentorID:    "mentor-1",
		MentorName:  "Grace",
		MentorEmail: "grace@example.com",
		MeetingDate: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		MeetingTime: "1:00 PM",
	}
}

var syntheticPattern = regexp.MustCompile(`^https://meet\.example\.com/[a-z0-9]{26}$`)

func newTestProvisioner(tokens TokenSource, events EventCreator) *Provisioner {
	p := NewProvisioner(tokens, events, "https://meet.example.com/", nil)
	p.randFloat = func() float64 { return 0.5 }
	return p
}

func TestMeetLinkSyntheticFallback(t *testing.T) {
	t.Run("no party has a token", func(t *testing.T) {
		p := newTestProvisioner(&fakeTokens{byKey: map[string]*oauth2.Token{}}, &fakeEvents{})
		link := p.MeetLink(context.Background(), testMeeting())
		if !syntheticPattern.MatchString(link) {
			t.Fatalf("link %q does not match the synthetic pattern", link)
		}
	})

	t.Run("every event creation fails", func(t *testing.T) {
		tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
			"mentor-1": {AccessToken: "at-mentor"},
			"mentee-1": {AccessToken: "at-mentee"},
		}}
		events := &fakeEvents{linkFor: map[string]string{}}
		p := newTestProvisioner(tokens, events)

		link := p.MeetLink(context.Background(), testMeeting())
		if !syntheticPattern.MatchString(link) {
			t.Fatalf("link %q does not match the synthetic pattern", link)
		}
		if len(events.calls) != 2 {
			t.Errorf("create attempts = %d, want 2 (one per available token)", len(events.calls))
		}
	})

	t.Run("unparseable meeting time", func(t *testing.T) {
		m := testMeeting()
		m.MeetingTime = "sometime soon"
		p := newTestProvisioner(&fakeTokens{byKey: map[string]*oauth2.Token{}}, &fakeEvents{})
		if link := p.MeetLink(context.Background(), m); !syntheticPattern.MatchString(link) {
			t.Fatalf("link %q does not match the synthetic pattern", link)
		}
	})
}

func TestMeetLinkFallbackOrder(t *testing.T) {
	t.Run("mentor calendar wins when available", func(t *testing.T) {
		tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
			"mentor-1": {AccessToken: "at-mentor"},
			"mentee-1": {AccessToken: "at-mentee"},
		}}
		events := &fakeEvents{linkFor: map[string]string{
			"at-mentor": "https://meet.google.com/aaa-bbbb-ccc",
			"at-mentee": "https://meet.google.com/xxx-yyyy-zzz",
		}}
		p := newTestProvisioner(tokens, events)

		link := p.MeetLink(context.Background(), testMeeting())
		if link != "https://meet.google.com/aaa-bbbb-ccc" {
			t.Fatalf("link = %q, want the mentor-hosted one", link)
		}
		if events.calls[0].accessToken != "at-mentor" {
			t.Errorf("first attempt used token %q, want the mentor's", events.calls[0].accessToken)
		}
	})

	t.Run("mentor email key tried when id lookup misses", func(t *testing.T) {
		tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
			"grace@example.com": {AccessToken: "at-mentor-email"},
		}}
		events := &fakeEvents{linkFor: map[string]string{
			"at-mentor-email": "https://meet.google.com/aaa-bbbb-ccc",
		}}
		p := newTestProvisioner(tokens, events)

		if link := p.MeetLink(context.Background(), testMeeting()); link != "https://meet.google.com/aaa-bbbb-ccc" {
			t.Fatalf("link = %q, want the email-keyed mentor one", link)
		}
	})

	t.Run("mentee calendar is the role-reversed fallback", func(t *testing.T) {
		tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
			"mentee-1": {AccessToken: "at-mentee"},
		}}
		events := &fakeEvents{linkFor: map[string]string{
			"at-mentee": "https://meet.google.com/xxx-yyyy-zzz",
		}}
		p := newTestProvisioner(tokens, events)

		if link := p.MeetLink(context.Background(), testMeeting()); link != "https://meet.google.com/xxx-yyyy-zzz" {
			t.Fatalf("link = %q, want the mentee-hosted one", link)
		}
	})
}

func TestMeetLinkMirrorEvent(t *testing.T) {
	tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
		"mentor-1": {AccessToken: "at-mentor"},
		"mentee-1": {AccessToken: "at-mentee"},
	}}
	events := &fakeEvents{linkFor: map[string]string{
		"at-mentor": "https://meet.google.com/aaa-bbbb-ccc",
		"at-mentee": "https://meet.google.com/ignored",
	}}
	p := newTestProvisioner(tokens, events)

	link := p.MeetLink(context.Background(), testMeeting())
	if link != "https://meet.google.com/aaa-bbbb-ccc" {
		t.Fatalf("link = %q, want the mentor-hosted one", link)
	}
	if len(events.calls) != 2 {
		t.Fatalf("create calls = %d, want host event plus mirror", len(events.calls))
	}
	mirror := events.calls[1]
	if mirror.accessToken != "at-mentee" {
		t.Errorf("mirror used token %q, want the mentee's", mirror.accessToken)
	}
	if mirror.spec.WithConference {
		t.Error("mirror event must not request a conference")
	}

	t.Run("mirror failure is ignored", func(t *testing.T) {
		tokens := &fakeTokens{byKey: map[string]*oauth2.Token{
			"mentor-1": {AccessToken: "at-mentor"},
			"mentee-1": {AccessToken: "at-mentee-broken"},
		}}
		events := &fakeEvents{linkFor: map[string]string{
			"at-mentor": "https://meet.google.com/aaa-bbbb-ccc",
		}}
		p := newTestProvisioner(tokens, events)

		if link := p.MeetLink(context.Background(), testMeeting()); link != "https://meet.google.com/aaa-bbbb-ccc" {
			t.Fatalf("link = %q, mirror failure must not affect the result", link)
		}
	})
}

func TestSyntheticSegmentEncoding(t *testing.T) {
	p := NewProvisioner(nil, nil, "https://meet.example.com/", nil)
	p.randFloat = func() float64 { return 0 }
	if link := p.syntheticLink(); link != "https://meet.example.com/"+
		"0000000000000"+"0000000000000" {
		t.Fatalf("zero fraction link = %q", link)
	}

	p.randFloat = func() float64 { return 0.999999999999 }
	link := p.syntheticLink()
	if !syntheticPattern.MatchString(link) {
		t.Fatalf("link %q does not match the synthetic pattern", link)
	}
}
