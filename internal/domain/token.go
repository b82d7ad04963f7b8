package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenRecord is a stored calendar-access grant for one party. PartyID is the
// primary key; Email is a secondary lookup key for callers that only know the
// party's address.
type TokenRecord struct {
	PartyID      string `json:"party_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	// ExpiryMillis is the access token expiry as epoch milliseconds.
	// Zero means the provider never reported one.
	ExpiryMillis int64 `json:"expiry_date"`
}

// Expired reports whether the access token is past its expiry. Records
// without an expiry are not considered expired here; the token manager
// handles that case explicitly.
func (t *TokenRecord) Expired(now time.Time) bool {
	if t.ExpiryMillis == 0 {
		return false
	}
	return now.UnixMilli() > t.ExpiryMillis
}

// OAuth converts the record to an oauth2.Token.
func (t *TokenRecord) OAuth() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiryMillis != 0 {
		tok.Expiry = time.UnixMilli(t.ExpiryMillis).UTC()
	}
	return tok
}
