package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BrasserTech/handluz/internal/common"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store directly against the hosted Postgres
// instance the backend-as-a-service exposes.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open dials the backend database and verifies the connection.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const profileColumns = `id, email, COALESCE(full_name, ''), COALESCE(role, ''), COALESCE(push_token, ''), COALESCE(avatar_url, '')`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.PushToken, &p.AvatarURL)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileByEmail expects exactly one matching row. Duplicated emails mean the
// table no longer satisfies the sign-in key contract, so they are reported
// the same way as an absent row.
func (s *PostgresStore) ProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1 LIMIT 2`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var found *Profile
	count := 0
	for rows.Next() {
		count++
		if count > 1 {
			return nil, common.ErrNotFound
		}
		if found, err = scanProfile(rows); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if found == nil {
		return nil, common.ErrNotFound
	}
	return found, nil
}

func (s *PostgresStore) ProfileByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) LatestPassword(ctx context.Context, profileID string) (string, error) {
	query := `SELECT password FROM passwords
		 WHERE profile_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`

	var password string
	err := s.db.QueryRowContext(ctx, query, profileID).Scan(&password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return password, nil
}

func (s *PostgresStore) UpdatePushToken(ctx context.Context, id, token string) error {
	return s.updateColumn(ctx, "push_token", id, token)
}

func (s *PostgresStore) UpdateRole(ctx context.Context, id, role string) error {
	return s.updateColumn(ctx, "role", id, role)
}

func (s *PostgresStore) UpdateAvatarURL(ctx context.Context, id, url string) error {
	return s.updateColumn(ctx, "avatar_url", id, url)
}

func (s *PostgresStore) updateColumn(ctx context.Context, column, id, value string) error {
	query := fmt.Sprintf(`UPDATE profiles SET %s = $1 WHERE id = $2`, column)

	res, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
