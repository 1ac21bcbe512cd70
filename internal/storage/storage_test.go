package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "wedding.db")
	s, err := NewStorage(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// tick makes CreatedAt strictly increasing so ordering is deterministic.
func tick(s *Storage) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestNewStorageRejectsUnknownDriver(t *testing.T) {
	_, err := NewStorage("mysql", "x")
	assert.Error(t, err)
}

func TestNewStorageIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wedding.db")
	s1, err := NewStorage(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStorage(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)
	tick(s)

	first, err := s.CreateSubmission(ctx, intake.NewSubmission{
		Message: "Mazal tov", PhotoURL: "https://img/1.jpg", TableNumber: intPtr(5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Nil(t, first.GuestName)

	second, err := s.CreateSubmission(ctx, intake.NewSubmission{
		Message: "Love you", PhotoURL: "https://img/2.jpg", GuestName: strPtr("Noa"),
	})
	require.NoError(t, err)

	all, err := s.ListSubmissions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, "Noa", *all[0].GuestName)
	assert.Nil(t, all[0].TableNumber)
	assert.Equal(t, 5, *all[1].TableNumber)
	assert.True(t, first.CreatedAt.Equal(all[1].CreatedAt))

	five, err := s.ListSubmissions(ctx, intPtr(5))
	require.NoError(t, err)
	require.Len(t, five, 1)
	assert.Equal(t, first.ID, five[0].ID)

	got, err := s.GetSubmission(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mazal tov", got.Message)

	require.NoError(t, s.DeleteSubmission(ctx, first.ID))
	_, err = s.GetSubmission(ctx, first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSubmission(ctx, first.ID), apperr.ErrNotFound)
}

func TestListSubmissionsEmpty(t *testing.T) {
	s := createTestStorage(t)
	subs, err := s.ListSubmissions(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestRSVPs(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)
	tick(s)

	a, err := s.CreateRSVP(ctx, intake.NewRSVP{
		GuestName: "Ali", Attendance: models.NotAttending,
	})
	require.NoError(t, err)
	b, err := s.CreateRSVP(ctx, intake.NewRSVP{
		GuestName:  "Dana",
		Attendance: models.Attending,
		GuestCount: 2,
		Phone:      strPtr("0501234567"),
	})
	require.NoError(t, err)

	list, err := s.ListRSVPs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, models.Attending, list[0].Attendance)
	assert.Equal(t, 2, list[0].GuestCount)
	assert.Equal(t, "0501234567", *list[0].Phone)
	assert.Nil(t, list[0].Email)
	assert.Equal(t, models.NotAttending, list[1].Attendance)

	require.NoError(t, s.DeleteRSVP(ctx, a.ID))
	require.NoError(t, s.DeleteRSVP(ctx, a.ID))
	list, err = s.ListRSVPs(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMusicSettings(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	got, err := s.GetMusicSettings(ctx)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, models.DefaultMusicSettings(), got)

	want := models.MusicSettings{Enabled: true, URL: "https://music/song.mp3", Title: "Our Song"}
	require.NoError(t, s.SaveMusicSettings(ctx, want))
	got, err = s.GetMusicSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Enabled = false
	require.NoError(t, s.SaveMusicSettings(ctx, want))
	got, err = s.GetMusicSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSubmissionIDsDifferInPrefix(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	prefixes := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sub, err := s.CreateSubmission(ctx, intake.NewSubmission{
			Message:  "Mazal tov",
			PhotoURL: "https://img.example/p.jpg",
		})
		require.NoError(t, err)
		prefixes[sub.ID[:8]] = true
	}
	assert.Len(t, prefixes, 20)
}
