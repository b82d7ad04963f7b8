// Package calendar resolves per-party OAuth credentials and provisions
// calendar events with video-call links for confirmed meetings.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googlecal "google.golang.org/api/calendar/v3"

	"mentormatch-service/internal/config"
	"mentormatch-service/internal/domain"
)

// TokenStore persists one token record per party.
type TokenStore interface {
	ByPartyID(ctx context.Context, partyID string) (*domain.TokenRecord, error)
	ByEmail(ctx context.Context, email string) (*domain.TokenRecord, error)
	Save(ctx context.Context, rec *domain.TokenRecord) error
	Delete(ctx context.Context, partyID string) error
}

// PartyDirectory resolves an email to a canonical party id. Last-resort
// reconciliation path, not a hot path.
type PartyDirectory interface {
	PartyIDByEmail(ctx context.Context, email string) (string, error)
}

// NewOAuthConfig builds the Google OAuth2 config used for consent and token
// refresh. The config is immutable; the per-party token is passed on every
// call, never held on a shared client.
func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			googlecal.CalendarEventsScope,
		},
		Endpoint: google.Endpoint,
	}
}

// Manager looks up a party's stored grant by id or email, refreshes expired
// access tokens, and purges grants the provider no longer honors.
type Manager struct {
	store     TokenStore
	directory PartyDirectory
	config    *oauth2.Config
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	partyLocks map[string]*sync.Mutex
}

func NewManager(store TokenStore, directory PartyDirectory, cfg *oauth2.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:      store,
		directory:  directory,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
		partyLocks: map[string]*sync.Mutex{},
	}
}

// AuthURL returns the consent URL for a party. Offline access is requested so
// a refresh token is granted.
func (m *Manager) AuthURL(state string) string {
	return m.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SaveGrant exchanges an authorization code and stores the resulting token
// for the party.
func (m *Manager) SaveGrant(ctx context.Context, partyID, email, code string) error {
	tok, err := m.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	rec := &domain.TokenRecord{
		PartyID:      partyID,
		Email:        email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		rec.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		rec.ExpiryMillis = tok.Expiry.UnixMilli()
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("store token for %s: %w", partyID, err)
	}
	return nil
}

// Token resolves a party key (opaque id or email) to a valid access token,
// refreshing when needed. Lookup order: primary id, then email, then the
// profile directory's email reconciliation.
func (m *Manager) Token(ctx context.Context, key string) (*oauth2.Token, error) {
	rec, err := m.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	if rec.ExpiryMillis == 0 {
		// A grant the provider never stamped with an expiry. Refresh it to
		// backfill one rather than trusting it forever; without a refresh
		// token it is used as-is.
		if rec.RefreshToken == "" {
			m.logger.Warn("token has no expiry and no refresh token, using as-is",
				"party_id", rec.PartyID)
			return rec.OAuth(), nil
		}
		return m.refresh(ctx, rec)
	}
	if rec.Expired(m.now()) {
		return m.refresh(ctx, rec)
	}
	return rec.OAuth(), nil
}

func (m *Manager) lookup(ctx context.Context, key string) (*domain.TokenRecord, error) {
	rec, err := m.store.ByPartyID(ctx, key)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if !strings.Contains(key, "@") {
		return nil, domain.ErrNotFound
	}

	rec, err = m.store.ByEmail(ctx, key)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	partyID, err := m.directory.PartyIDByEmail(ctx, key)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return m.store.ByPartyID(ctx, partyID)
}

// refresh exchanges the refresh token for a new access token. Refreshes for
// the same party are serialized; providers may treat a concurrently reused
// refresh token as theft.
func (m *Manager) refresh(ctx context.Context, rec *domain.TokenRecord) (*oauth2.Token, error) {
	lock := m.partyLock(rec.PartyID)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have finished the refresh while we waited.
	if cur, err := m.store.ByPartyID(ctx, rec.PartyID); err == nil {
		if cur.ExpiryMillis != 0 && !cur.Expired(m.now()) {
			return cur.OAuth(), nil
		}
		rec = cur
	}

	tok, err := m.config.TokenSource(ctx, rec.OAuth()).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// The provider rejected the refresh token outright. Purge the
			// grant so the party is prompted to re-consent.
			if delErr := m.store.Delete(ctx, rec.PartyID); delErr != nil {
				m.logger.Warn("purge of rejected token failed",
					"party_id", rec.PartyID, "error", delErr)
			}
			return nil, fmt.Errorf("refresh rejected for %s: %w", rec.PartyID, domain.ErrAuthExpired)
		}
		return nil, fmt.Errorf("refresh token for %s: %w", rec.PartyID, err)
	}

	rec.AccessToken = tok.AccessToken
	rec.TokenType = tok.TokenType
	if tok.RefreshToken != "" {
		rec.RefreshToken = tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		rec.ExpiryMillis = tok.Expiry.UnixMilli()
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist refreshed token for %s: %w", rec.PartyID, err)
	}
	return tok, nil
}

func (m *Manager) partyLock(partyID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.partyLocks[partyID]
	if !ok {
		lock = &sync.Mutex{}
		m.partyLocks[partyID] = lock
	}
	return lock
}
