package intake

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

func ptr(s string) *string { return &s }

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Message
}

func TestSubmission(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmissionInput
		wantErr string
	}{
		{
			name:    "missing photo",
			in:      SubmissionInput{Message: ptr("Mazal tov")},
			wantErr: "missing photo",
		},
		{
			name:    "blank photo",
			in:      SubmissionInput{Message: ptr("Mazal tov"), PhotoURL: ptr("  ")},
			wantErr: "missing photo",
		},
		{
			name:    "photo not a url",
			in:      SubmissionInput{Message: ptr("Mazal tov"), PhotoURL: ptr("not a url")},
			wantErr: "invalid photo url",
		},
		{
			name:    "missing message",
			in:      SubmissionInput{PhotoURL: ptr("https://x/y.jpg")},
			wantErr: "missing message",
		},
		{
			name:    "whitespace message",
			in:      SubmissionInput{PhotoURL: ptr("https://x/y.jpg"), Message: ptr(" \n\t ")},
			wantErr: "missing message",
		},
		{
			name:    "message too long",
			in:      SubmissionInput{PhotoURL: ptr("https://x/y.jpg"), Message: ptr(strings.Repeat("a", 501))},
			wantErr: "message exceeds 500 characters",
		},
		{
			name: "message at limit counts characters not bytes",
			in:   SubmissionInput{PhotoURL: ptr("https://x/y.jpg"), Message: ptr(strings.Repeat("ש", 500))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Submission(tt.in)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, validationMessage(t, err))
				return
			}
			require.NoError(t, err)
			assert.LessOrEqual(t, len([]rune(got.Message)), MaxMessageLength)
		})
	}
}

func TestSubmissionNormalizes(t *testing.T) {
	var in SubmissionInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"message": "  Congrats!  ",
		"photo_url": "https://x/y.jpg",
		"guest_name": "   ",
		"table_number": "5"
	}`), &in))

	got, err := Submission(in)
	require.NoError(t, err)
	assert.Equal(t, "Congrats!", got.Message)
	assert.Nil(t, got.GuestName)
	require.NotNil(t, got.TableNumber)
	assert.Equal(t, 5, *got.TableNumber)
}

func TestSubmissionTableNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{`7`, intPtr(7)},
		{`"12"`, intPtr(12)},
		{`" 3 "`, intPtr(3)},
		{`"4.0"`, intPtr(4)},
		{`0`, nil},
		{`-2`, nil},
		{`"abc"`, nil},
		{`""`, nil},
		{`null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in SubmissionInput
			body := `{"message":"hi","photo_url":"https://x/y.jpg","table_number":` + tt.raw + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &in))
			got, err := Submission(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TableNumber)
		})
	}
}

func TestSubmissionGuestNameNFC(t *testing.T) {
	decomposed := "Zoe\u0301"
	got, err := Submission(SubmissionInput{
		Message:   ptr("hi"),
		PhotoURL:  ptr("https://x/y.jpg"),
		GuestName: ptr(" " + decomposed + " "),
	})
	require.NoError(t, err)
	require.NotNil(t, got.GuestName)
	assert.Equal(t, "Zo\u00e9", *got.GuestName)
}

func TestRSVP(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   string
		wantCount int
	}{
		{"missing name", `{"attendance":"attending"}`, "guest_name and attendance required", 0},
		{"missing attendance", `{"guest_name":"Ali"}`, "guest_name and attendance required", 0},
		{"unknown attendance", `{"guest_name":"Ali","attendance":"yes"}`, "invalid attendance", 0},
		{"attending default count", `{"guest_name":"Ali","attendance":"attending"}`, "", 1},
		{"attending with count", `{"guest_name":"Ali","attendance":"attending","guest_count":3}`, "", 3},
		{"attending zero count", `{"guest_name":"Ali","attendance":"attending","guest_count":0}`, "", 1},
		{"attending string count", `{"guest_name":"Ali","attendance":"attending","guest_count":"2"}`, "", 2},
		{"not attending ignores count", `{"guest_name":"Ali","attendance":"not_attending","guest_count":5}`, "", 0},
		{"maybe ignores count", `{"guest_name":"Ali","attendance":"maybe","guest_count":2}`, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in RSVPInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			got, err := RSVP(in)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, validationMessage(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.GuestCount)
		})
	}
}

func TestRSVPOptionalFields(t *testing.T) {
	got, err := RSVP(RSVPInput{
		GuestName:           " Dana ",
		Attendance:          "maybe",
		Email:               ptr(""),
		Phone:               ptr(" 050-1234567 "),
		DietaryRestrictions: ptr("   "),
		Message:             ptr("see you"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.GuestName)
	assert.Equal(t, models.Maybe, got.Attendance)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.DietaryRestrictions)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "050-1234567", *got.Phone)
	require.NotNil(t, got.Message)
	assert.Equal(t, "see you", *got.Message)
}

func TestGuestCountExhaustive(t *testing.T) {
	for _, a := range models.Attendances {
		n := GuestCount(a, FlexOf("4"))
		if a == models.Attending {
			assert.Equal(t, 4, n)
		} else {
			assert.Zero(t, n, a.String())
		}
	}
}

func TestFlexRejectsObjects(t *testing.T) {
	var f Flex
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func intPtr(n int) *int { return &n }
