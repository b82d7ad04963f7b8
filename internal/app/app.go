// Package app exposes the matching, availability, and meeting negotiation
// operations over HTTP.
package app

import (
	"context"
	"log/slog"

	"mentormatch-service/internal/calendar"
	"mentormatch-service/internal/domain"
	"mentormatch-service/internal/meeting"
	"mentormatch-service/internal/profile"
)

type App struct {
	Profiles  *profile.Store
	Scheduler *meeting.Scheduler
	Tokens    *calendar.Manager
	Logger    *slog.Logger
}

// partyEmail resolves a party id to its profile email, trying mentors first.
func (a *App) partyEmail(ctx context.Context, partyID string) (string, error) {
	if mentor, err := a.Profiles.Mentor(ctx, partyID); err == nil {
		return mentor.Email, nil
	}
	mentee, err := a.Profiles.Mentee(ctx, partyID)
	if err != nil {
		return "", domain.ErrNotFound
	}
	return mentee.Email, nil
}
