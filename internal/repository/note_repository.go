package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notedeck/api/internal/models"
)

// ErrNoteNotFound covers both a note that does not exist and a note owned by
// someone else. Callers must never be able to tell the two apart.
var ErrNoteNotFound = errors.New("note not found")

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, note models.Note) error {
	const query = `
		INSERT INTO notes (id, user_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := r.pool.Exec(ctx, query, note.ID, note.UserID, note.Title, note.Body)
	return err
}

// GetForOwner loads a note only when ownerID matches its owner.
func (r *NoteRepository) GetForOwner(ctx context.Context, ownerID string, id string) (models.Note, error) {
	const query = `
		SELECT id, user_id, title, body, deleted_at, created_at, updated_at
		FROM notes
		WHERE id = $2 AND user_id = $1 AND deleted_at IS NULL
	`

	row := r.pool.QueryRow(ctx, query, ownerID, id)
	var note models.Note
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Body,
		&note.DeletedAt,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	return note, nil
}

// ListByOwner returns the owner's notes newest first. The id tiebreak keeps
// the order total when two notes share a creation timestamp.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
	const query = `
		SELECT id, title
		FROM notes
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.NoteListItem
	for rows.Next() {
		var item models.NoteListItem
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteForOwner soft-deletes the note. A zero row count means the note is
// absent or belongs to another owner; both map to ErrNoteNotFound.
func (r *NoteRepository) DeleteForOwner(ctx context.Context, ownerID string, id string) error {
	const query = `
		UPDATE notes SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND user_id = $1 AND deleted_at IS NULL
	`

	cmd, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// PurgeDeletedBefore permanently removes notes soft-deleted before cutoff.
func (r *NoteRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM notes WHERE deleted_at IS NOT NULL AND deleted_at < $1`

	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
