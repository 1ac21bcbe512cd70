package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

const submissionColumns = `id, guest_name, message, photo_url, table_number, created_at`

// CreateSubmission stores a validated blessing
func (s *Storage) CreateSubmission(ctx context.Context, in intake.NewSubmission) (models.Submission, error) {
	sub := models.Submission{
		ID:          newID(),
		GuestName:   in.GuestName,
		Message:     in.Message,
		PhotoURL:    in.PhotoURL,
		TableNumber: in.TableNumber,
		CreatedAt:   s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (`+submissionColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.GuestName, sub.Message, sub.PhotoURL, sub.TableNumber, sub.CreatedAt,
	)
	if err != nil {
		return models.Submission{}, fmt.Errorf("failed to insert submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns blessings newest first, optionally for one table
func (s *Storage) ListSubmissions(ctx context.Context, table *int) ([]models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var args []any
	if table != nil {
		query += ` WHERE table_number = $1`
		args = append(args, *table)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]models.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return subs, nil
}

// GetSubmission returns one blessing or apperr.ErrNotFound
func (s *Storage) GetSubmission(ctx context.Context, id string) (models.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Submission{}, fmt.Errorf("submission %s: %w", id, apperr.ErrNotFound)
	}
	return sub, err
}

// DeleteSubmission removes a blessing. Deleting a missing id returns
// apperr.ErrNotFound.
func (s *Storage) DeleteSubmission(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (models.Submission, error) {
	var sub models.Submission
	err := row.Scan(&sub.ID, &sub.GuestName, &sub.Message, &sub.PhotoURL, &sub.TableNumber, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, err
	}
	if err != nil {
		return sub, fmt.Errorf("failed to scan submission: %w", err)
	}
	sub.CreatedAt = sub.CreatedAt.UTC()
	return sub, nil
}
