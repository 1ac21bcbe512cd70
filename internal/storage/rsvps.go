package storage

import (
	"context"
	"fmt"

	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

const rsvpColumns = `id, guest_name, email, phone, attendance, guest_count, dietary_restrictions, message, created_at`

// CreateRSVP stores a validated RSVP
func (s *Storage) CreateRSVP(ctx context.Context, in intake.NewRSVP) (models.RSVP, error) {
	r := models.RSVP{
		ID:                  newID(),
		GuestName:           in.GuestName,
		Email:               in.Email,
		Phone:               in.Phone,
		Attendance:          in.Attendance,
		GuestCount:          in.GuestCount,
		DietaryRestrictions: in.DietaryRestrictions,
		Message:             in.Message,
		CreatedAt:           s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvp (`+rsvpColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.GuestName, r.Email, r.Phone, r.Attendance, r.GuestCount,
		r.DietaryRestrictions, r.Message, r.CreatedAt,
	)
	if err != nil {
		return models.RSVP{}, fmt.Errorf("failed to insert rsvp: %w", err)
	}
	return r, nil
}

// ListRSVPs returns all RSVPs newest first
func (s *Storage) ListRSVPs(ctx context.Context) ([]models.RSVP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+rsvpColumns+` FROM rsvp ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	defer rows.Close()

	rsvps := make([]models.RSVP, 0)
	for rows.Next() {
		var r models.RSVP
		if err := rows.Scan(&r.ID, &r.GuestName, &r.Email, &r.Phone, &r.Attendance,
			&r.GuestCount, &r.DietaryRestrictions, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		rsvps = append(rsvps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rsvps: %w", err)
	}
	return rsvps, nil
}

// DeleteRSVP removes an RSVP. Missing ids are not an error.
func (s *Storage) DeleteRSVP(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rsvp WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete rsvp: %w", err)
	}
	return nil
}
