package models

import "time"

// AnonymousGuest is shown for submissions without a guest name
const AnonymousGuest = "Anonymous Guest"

// Submission is a blessing left by a guest: a photo and a short message
type Submission struct {
	ID          string    `json:"id"`
	GuestName   *string   `json:"guest_name"`
	Message     string    `json:"message"`
	PhotoURL    string    `json:"photo_url"`
	TableNumber *int      `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s Submission) Key() string        { return s.ID }
func (s Submission) Created() time.Time { return s.CreatedAt }

// DisplayName returns the guest name or the anonymous placeholder
func (s Submission) DisplayName() string {
	if s.GuestName == nil || *s.GuestName == "" {
		return AnonymousGuest
	}
	return *s.GuestName
}

// InTable reports whether the submission belongs to the given table.
// A nil table matches every submission.
func (s Submission) InTable(table *int) bool {
	if table == nil {
		return true
	}
	return s.TableNumber != nil && *s.TableNumber == *table
}
