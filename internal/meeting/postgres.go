package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentormatch-service/internal/domain"
)

// PostgresStore keeps the pending and confirmed collections in two tables.
type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) CreatePending(ctx context.Context, m *domain.Meeting) error {
	q := `INSERT INTO meetings_pending
	      (id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	       meeting_date, meeting_time, mentee_approved, mentor_approved, revision, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1,$12,$13)`
	_, err := s.DB.Exec(ctx, q,
		m.ID, m.MenteeID, m.MenteeName, m.MenteeEmail,
		m.MentorID, m.MentorName, m.MentorEmail,
		m.MeetingDate, m.MeetingTime, m.MenteeApproved, m.MentorApproved,
		m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	m.Revision = 1
	return nil
}

func (s *PostgresStore) GetPending(ctx context.Context, id string) (*domain.Meeting, error) {
	q := `SELECT id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	             meeting_date, meeting_time, mentee_approved, mentor_approved, revision, created_at, updated_at
	      FROM meetings_pending WHERE id=$1`
	var m domain.Meeting
	err := s.DB.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.MenteeID, &m.MenteeName, &m.MenteeEmail,
		&m.MentorID, &m.MentorName, &m.MentorEmail,
		&m.MeetingDate, &m.MeetingTime, &m.MenteeApproved, &m.MentorApproved,
		&m.Revision, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = domain.MeetingPending
	return &m, nil
}

// UpdatePending writes the record only if nobody has updated it since the
// caller read expectedRevision.
func (s *PostgresStore) UpdatePending(ctx context.Context, m *domain.Meeting, expectedRevision int64) error {
	q := `UPDATE meetings_pending
	      SET meeting_date=$2, meeting_time=$3, mentee_approved=$4, mentor_approved=$5,
	          revision=revision+1, updated_at=$6
	      WHERE id=$1 AND revision=$7
	      RETURNING revision`
	err := s.DB.QueryRow(ctx, q,
		m.ID, m.MeetingDate, m.MeetingTime, m.MenteeApproved, m.MentorApproved,
		m.UpdatedAt, expectedRevision).Scan(&m.Revision)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the record is gone or another writer got there first.
		var exists bool
		checkErr := s.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM meetings_pending WHERE id=$1)`, m.ID).Scan(&exists)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return err
}

// Promote inserts the confirmed record and deletes the pending one in a
// single transaction, so a meeting can never exist in both collections.
func (s *PostgresStore) Promote(ctx context.Context, confirmed *domain.Meeting) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO meetings_confirmed
	      (id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	       meeting_date, meeting_time, meet_link, created_at, confirmed_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err = tx.Exec(ctx, q,
		confirmed.ID, confirmed.MenteeID, confirmed.MenteeName, confirmed.MenteeEmail,
		confirmed.MentorID, confirmed.MentorName, confirmed.MentorEmail,
		confirmed.MeetingDate, confirmed.MeetingTime, confirmed.MeetLink,
		confirmed.CreatedAt, confirmed.ConfirmedAt)
	if err != nil {
		return err
	}

	res, err := tx.Exec(ctx, `DELETE FROM meetings_pending WHERE id=$1`, confirmed.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("pending record already finalized: %w", domain.ErrConflict)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetConfirmed(ctx context.Context, id string) (*domain.Meeting, error) {
	q := `SELECT id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	             meeting_date, meeting_time, meet_link, created_at, confirmed_at
	      FROM meetings_confirmed WHERE id=$1`
	var m domain.Meeting
	var confirmedAt time.Time
	err := s.DB.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.MenteeID, &m.MenteeName, &m.MenteeEmail,
		&m.MentorID, &m.MentorName, &m.MentorEmail,
		&m.MeetingDate, &m.MeetingTime, &m.MeetLink, &m.CreatedAt, &confirmedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = domain.MeetingConfirmed
	m.MenteeApproved = true
	m.MentorApproved = true
	m.ConfirmedAt = &confirmedAt
	m.UpdatedAt = confirmedAt
	return &m, nil
}

func (s *PostgresStore) PendingForParty(ctx context.Context, partyID string) ([]domain.Meeting, error) {
	q := `SELECT id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	             meeting_date, meeting_time, mentee_approved, mentor_approved, revision, created_at, updated_at
	      FROM meetings_pending
	      WHERE mentee_id=$1 OR mentor_id=$1
	      ORDER BY meeting_date, created_at`
	rows, err := s.DB.Query(ctx, q, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(
			&m.ID, &m.MenteeID, &m.MenteeName, &m.MenteeEmail,
			&m.MentorID, &m.MentorName, &m.MentorEmail,
			&m.MeetingDate, &m.MeetingTime, &m.MenteeApproved, &m.MentorApproved,
			&m.Revision, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Status = domain.MeetingPending
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ConfirmedForParty(ctx context.Context, partyID string) ([]domain.Meeting, error) {
	q := `SELECT id, mentee_id, mentee_name, mentee_email, mentor_id, mentor_name, mentor_email,
	             meeting_date, meeting_time, meet_link, created_at, confirmed_at
	      FROM meetings_confirmed
	      WHERE mentee_id=$1 OR mentor_id=$1
	      ORDER BY meeting_date, confirmed_at`
	rows, err := s.DB.Query(ctx, q, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		var confirmedAt time.Time
		if err := rows.Scan(
			&m.ID, &m.MenteeID, &m.MenteeName, &m.MenteeEmail,
			&m.MentorID, &m.MentorName, &m.MentorEmail,
			&m.MeetingDate, &m.MeetingTime, &m.MeetLink, &m.CreatedAt, &confirmedAt); err != nil {
			return nil, err
		}
		m.Status = domain.MeetingConfirmed
		m.MenteeApproved = true
		m.MentorApproved = true
		m.ConfirmedAt = &confirmedAt
		m.UpdatedAt = confirmedAt
		out = append(out, m)
	}
	return out, rows.Err()
}
