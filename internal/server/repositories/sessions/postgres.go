package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

// PostgresRepository keeps sessions in the sessions table. It needs the
// *sql.DB itself because Create runs in a transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, expires time.Time) (*models.Session, error) {
	s := &models.Session{UserID: userID, Expires: expires}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		prune := `
			DELETE FROM sessions
			WHERE user_id = $1 AND expires_at < now()
		`
		if _, err := tx.ExecContext(ctx, prune, userID); err != nil {
			return dbx.MapError(err)
		}

		insert := `
			INSERT INTO sessions (user_id, expires_at)
			VALUES ($1, $2)
			RETURNING id, created_at
		`
		if err := tx.QueryRowContext(ctx, insert, userID, expires).Scan(&s.ID, &s.CreatedAt); err != nil {
			return dbx.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`
	s := &models.Session{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Expires, &s.CreatedAt); err != nil {
		return nil, dbx.MapError(err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return dbx.MapError(err)
	}
	return nil
}
