package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googlecal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventSpec describes one calendar event to insert on a party's primary
// calendar.
type EventSpec struct {
	Summary        string
	Description    string
	Start          time.Time
	End            time.Time
	Attendees      []string
	WithConference bool
}

// EventCreator inserts an event using the given party token and returns the
// conference link, if one was provisioned.
type EventCreator interface {
	Create(ctx context.Context, tok *oauth2.Token, spec EventSpec) (string, error)
}

// GoogleEvents creates events through the Google Calendar API. A service is
// built per call from the supplied token, so no credential state is shared
// across requests.
type GoogleEvents struct {
	Config *oauth2.Config
}

func (g *GoogleEvents) Create(ctx context.Context, tok *oauth2.Token, spec EventSpec) (string, error) {
	client := g.Config.Client(ctx, tok)
	srv, err := googlecal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("create calendar service: %w", err)
	}

	event := &googlecal.Event{
		Summary:     spec.Summary,
		Description: spec.Description,
		Start: &googlecal.EventDateTime{
			DateTime: spec.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &googlecal.EventDateTime{
			DateTime: spec.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}
	for _, email := range spec.Attendees {
		event.Attendees = append(event.Attendees, &googlecal.EventAttendee{Email: email})
	}

	call := srv.Events.Insert("primary", event).Context(ctx)
	if spec.WithConference {
		event.ConferenceData = &googlecal.ConferenceData{
			CreateRequest: &googlecal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &googlecal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}
	if created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri, nil
			}
		}
	}
	return "", nil
}
