package profiles

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string) error {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.ProfileDocument, error) {
	query := `
		SELECT user_id, data, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, query, userID))
}

// Upsert relies on jsonb concatenation, which replaces top-level keys.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, patch json.RawMessage) (*models.ProfileDocument, error) {
	query := `
		INSERT INTO profiles (user_id, data)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE
		SET data = profiles.data || EXCLUDED.data, updated_at = now()
		RETURNING user_id, data, created_at, updated_at
	`
	return scanDocument(r.db.QueryRowContext(ctx, query, userID, string(patch)))
}

func scanDocument(row *sql.Row) (*models.ProfileDocument, error) {
	d := &models.ProfileDocument{}
	var data []byte
	if err := row.Scan(&d.UserID, &data, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, dbx.MapError(err)
	}
	d.Data = json.RawMessage(data)
	return d, nil
}
