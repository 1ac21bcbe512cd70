// Package notify sends RSVP confirmations to guests and turns their chat
// replies into RSVPs.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"wedding-memories/internal/models"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// Notifier is told about every stored RSVP.
type Notifier interface {
	RSVPReceived(ctx context.Context, r models.RSVP)
}

// Noop ignores every RSVP.
type Noop struct{}

func (Noop) RSVPReceived(context.Context, models.RSVP) {}

// Event holds the wedding details quoted in confirmations.
type Event struct {
	CoupleNames string
	Date        string
	Location    string
}

// Confirmer messages guests who left a phone number.
type Confirmer struct {
	sender Sender
	event  Event
	log    zerolog.Logger
}

func NewConfirmer(sender Sender, event Event, log zerolog.Logger) *Confirmer {
	return &Confirmer{
		sender: sender,
		event:  event,
		log:    log.With().Str("component", "confirmations").Logger(),
	}
}

// RSVPReceived sends the confirmation. Failures are only logged.
func (c *Confirmer) RSVPReceived(ctx context.Context, r models.RSVP) {
	if r.Phone == nil || *r.Phone == "" {
		return
	}
	if err := c.sender.SendMessage(ctx, *r.Phone, Confirmation(r, c.event)); err != nil {
		c.log.Warn().Err(err).Str("rsvp", r.ID).Msg("Failed to send confirmation")
		return
	}
	c.log.Info().Str("rsvp", r.ID).Str("attendance", r.Attendance.String()).Msg("Confirmation sent")
}

// Confirmation composes the reply for an RSVP.
func Confirmation(r models.RSVP, ev Event) string {
	switch r.Attendance {
	case models.Attending:
		guests := "you"
		if r.GuestCount > 1 {
			guests = fmt.Sprintf("your party of %d", r.GuestCount)
		}
		msg := fmt.Sprintf("🎉 Wonderful, %s! We're so excited to celebrate with %s!\n\n"+
			"We've confirmed your attendance for the wedding of %s", r.GuestName, guests, ev.CoupleNames)
		if ev.Date != "" {
			msg += " on " + ev.Date
		}
		if ev.Location != "" {
			msg += " at " + ev.Location
		}
		return msg + ".\n\nSee you there! 💕"
	case models.NotAttending:
		return fmt.Sprintf("Thank you for letting us know, %s. We're sorry you won't be able to join us "+
			"for the wedding of %s.\n\nWe'll miss you! 💕", r.GuestName, ev.CoupleNames)
	case models.Maybe:
		return fmt.Sprintf("Thanks, %s! We've noted that you might join us for the wedding of %s. "+
			"Reply YES or NO whenever you know. 💕", r.GuestName, ev.CoupleNames)
	}
	return ""
}
