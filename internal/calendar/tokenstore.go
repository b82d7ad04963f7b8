package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentormatch-service/internal/domain"
)

// PostgresTokenStore keeps one row per party in oauth_tokens.
type PostgresTokenStore struct {
	DB *pgxpool.Pool
}

func NewPostgresTokenStore(db *pgxpool.Pool) *PostgresTokenStore {
	return &PostgresTokenStore{DB: db}
}

const tokenColumns = `party_id, email, access_token, refresh_token, scope, token_type, expiry_date`

func (s *PostgresTokenStore) ByPartyID(ctx context.Context, partyID string) (*domain.TokenRecord, error) {
	q := `SELECT ` + tokenColumns + ` FROM oauth_tokens WHERE party_id=$1`
	return s.scan(s.DB.QueryRow(ctx, q, partyID))
}

func (s *PostgresTokenStore) ByEmail(ctx context.Context, email string) (*domain.TokenRecord, error) {
	q := `SELECT ` + tokenColumns + ` FROM oauth_tokens WHERE email=$1 LIMIT 1`
	return s.scan(s.DB.QueryRow(ctx, q, email))
}

func (s *PostgresTokenStore) Save(ctx context.Context, rec *domain.TokenRecord) error {
	q := `INSERT INTO oauth_tokens
	      (party_id, email, access_token, refresh_token, scope, token_type, expiry_date, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	      ON CONFLICT (party_id) DO UPDATE SET
	          email=EXCLUDED.email,
	          access_token=EXCLUDED.access_token,
	          refresh_token=EXCLUDED.refresh_token,
	          scope=EXCLUDED.scope,
	          token_type=EXCLUDED.token_type,
	          expiry_date=EXCLUDED.expiry_date,
	          updated_at=EXCLUDED.updated_at`
	_, err := s.DB.Exec(ctx, q,
		rec.PartyID, rec.Email, rec.AccessToken, rec.RefreshToken,
		rec.Scope, rec.TokenType, rec.ExpiryMillis, time.Now().UTC())
	return err
}

func (s *PostgresTokenStore) Delete(ctx context.Context, partyID string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM oauth_tokens WHERE party_id=$1`, partyID)
	return err
}

func (s *PostgresTokenStore) scan(row pgx.Row) (*domain.TokenRecord, error) {
	var rec domain.TokenRecord
	err := row.Scan(&rec.PartyID, &rec.Email, &rec.AccessToken, &rec.RefreshToken,
		&rec.Scope, &rec.TokenType, &rec.ExpiryMillis)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
