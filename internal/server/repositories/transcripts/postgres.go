// Package transcripts provides a PostgreSQL-backed repository for
// transcription results.
package transcripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/dbx"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

const transcriptColumns = `id, user_id, title, text, provider, language, duration_seconds,
	audio_key, audio_mime, size_bytes, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tr *models.Transcript) (*models.Transcript, error) {
	query := `
		INSERT INTO transcripts (id, user_id, title, text, provider, language, duration_seconds, audio_key, audio_mime, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	tr.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		tr.ID, tr.UserID, tr.Title, tr.Text, tr.Provider, tr.Language,
		tr.DurationSeconds, tr.AudioKey, tr.AudioMime, tr.SizeBytes).
		Scan(&tr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tr, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Transcript, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM transcripts WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `SELECT ` + transcriptColumns + `
		FROM transcripts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select transcripts: %w", err)
	}
	defer rows.Close()

	var result []*models.Transcript
	for rows.Next() {
		var item models.Transcript
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Text, &item.Provider, &item.Language,
			&item.DurationSeconds, &item.AudioKey, &item.AudioMime, &item.SizeBytes, &item.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Transcript, error) {
	query := `SELECT ` + transcriptColumns + ` FROM transcripts WHERE id = $1 AND user_id = $2`

	tr := &models.Transcript{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&tr.ID, &tr.UserID, &tr.Title, &tr.Text, &tr.Provider, &tr.Language,
		&tr.DurationSeconds, &tr.AudioKey, &tr.AudioMime, &tr.SizeBytes, &tr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tr, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM transcripts WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
