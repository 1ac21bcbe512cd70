package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

// Inbound is a chat message received from a guest.
type Inbound struct {
	Phone string
	Name  string
	Text  string
}

// Recorder stores an RSVP through the same path as the web form.
type Recorder interface {
	RecordRSVP(ctx context.Context, in intake.RSVPInput) (models.RSVP, error)
}

// Replies turns YES / NO / MAYBE chat replies into RSVPs.
type Replies struct {
	rec Recorder
	log zerolog.Logger
}

func NewReplies(rec Recorder, log zerolog.Logger) *Replies {
	return &Replies{rec: rec, log: log.With().Str("component", "replies").Logger()}
}

// Handle records an RSVP when the message is a recognizable answer and
// ignores everything else.
func (h *Replies) Handle(ctx context.Context, msg Inbound) error {
	attendance, ok := ParseReply(msg.Text)
	if !ok {
		return nil
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = msg.Phone
	}
	phone := msg.Phone
	r, err := h.rec.RecordRSVP(ctx, intake.RSVPInput{
		GuestName:  name,
		Phone:      &phone,
		Attendance: attendance.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to record rsvp: %w", err)
	}
	h.log.Info().Str("rsvp", r.ID).Str("attendance", attendance.String()).Msg("RSVP received by chat")
	return nil
}

var (
	declinePhrases = []string{"not coming", "can't come", "cant come", "won't come", "can't make it", "❌"}
	declineWords   = []string{"no", "nope", "decline", "declining", "לא"}
	maybePhrases   = []string{"not sure", "🤔"}
	maybeWords     = []string{"maybe", "perhaps", "אולי"}
	acceptPhrases  = []string{"will come", "will be there", "✅"}
	acceptWords    = []string{"yes", "yep", "yeah", "accept", "accepting", "attending", "coming", "כן"}
)

// ParseReply recognizes an attendance answer. Declines are checked first so
// that "not coming" is not read as "coming".
func ParseReply(text string) (models.Attendance, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	switch {
	case containsAny(text, declinePhrases...) || hasWord(words, declineWords...):
		return models.NotAttending, true
	case containsAny(text, maybePhrases...) || hasWord(words, maybeWords...):
		return models.Maybe, true
	case containsAny(text, acceptPhrases...) || hasWord(words, acceptWords...):
		return models.Attending, true
	}
	return 0, false
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func hasWord(words []string, keywords ...string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}
