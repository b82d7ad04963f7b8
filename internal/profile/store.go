// Package profile is the mentor/mentee document store. Set-valued fields and
// the availability map are kept as jsonb so profile edits stay single-row
// writes.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentormatch-service/internal/domain"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const mentorColumns = `id, name, email, years_of_experience, major, industry, skills,
	help_in, company_sizes, availability, created_at, updated_at`

const menteeColumns = `id, name, email, major, industry, skills_to_learn,
	service_looking_for, company_sizes, availability, created_at, updated_at`

func (s *Store) Mentor(ctx context.Context, id string) (*domain.MentorProfile, error) {
	q := `SELECT ` + mentorColumns + ` FROM mentors WHERE id=$1`
	return s.scanMentor(s.DB.QueryRow(ctx, q, id))
}

func (s *Store) MentorByEmail(ctx context.Context, email string) (*domain.MentorProfile, error) {
	q := `SELECT ` + mentorColumns + ` FROM mentors WHERE email=$1`
	return s.scanMentor(s.DB.QueryRow(ctx, q, email))
}

func (s *Store) Mentee(ctx context.Context, id string) (*domain.MenteeProfile, error) {
	q := `SELECT ` + menteeColumns + ` FROM mentees WHERE id=$1`
	return s.scanMentee(s.DB.QueryRow(ctx, q, id))
}

func (s *Store) MenteeByEmail(ctx context.Context, email string) (*domain.MenteeProfile, error) {
	q := `SELECT ` + menteeColumns + ` FROM mentees WHERE email=$1`
	return s.scanMentee(s.DB.QueryRow(ctx, q, email))
}

// Mentors returns every mentor profile, in insertion order, for ranking.
func (s *Store) Mentors(ctx context.Context) ([]domain.MentorProfile, error) {
	q := `SELECT ` + mentorColumns + ` FROM mentors ORDER BY created_at, id`
	rows, err := s.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MentorProfile
	for rows.Next() {
		m, err := s.scanMentor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMentorAvailability(ctx context.Context, id string, av domain.Availability) error {
	q := `UPDATE mentors SET availability=$2, updated_at=$3 WHERE id=$1`
	res, err := s.DB.Exec(ctx, q, id, av, time.Now().UTC())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateMenteeAvailability(ctx context.Context, id string, av domain.Availability) error {
	q := `UPDATE mentees SET availability=$2, updated_at=$3 WHERE id=$1`
	res, err := s.DB.Exec(ctx, q, id, av, time.Now().UTC())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMentor removes a mentor profile. Any stored OAuth grant for the
// party goes with it.
func (s *Store) DeleteMentor(ctx context.Context, id string) error {
	return s.deleteParty(ctx, "mentors", id)
}

func (s *Store) DeleteMentee(ctx context.Context, id string) error {
	return s.deleteParty(ctx, "mentees", id)
}

func (s *Store) deleteParty(ctx context.Context, table, id string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM oauth_tokens WHERE party_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

// PartyIDByEmail resolves an email to a canonical party id across both
// collections, mentors first. Used as the token manager's last-resort lookup.
func (s *Store) PartyIDByEmail(ctx context.Context, email string) (string, error) {
	mentor, err := s.MentorByEmail(ctx, email)
	if err == nil {
		return mentor.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	mentee, err := s.MenteeByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return mentee.ID, nil
}

func (s *Store) scanMentor(row pgx.Row) (*domain.MentorProfile, error) {
	var m domain.MentorProfile
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.YearsOfExperience, &m.Major,
		&m.Industry, &m.Skills, &m.HelpIn, &m.CompanySizes, &m.Availability,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) scanMentee(row pgx.Row) (*domain.MenteeProfile, error) {
	var m domain.MenteeProfile
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Major, &m.Industry,
		&m.SkillsToLearn, &m.ServiceLookingFor, &m.CompanySizes, &m.Availability,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
