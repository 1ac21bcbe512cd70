package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-memories/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		sub  models.Submission
		want string
	}{
		{
			name: "name and table",
			sub:  models.Submission{ID: "0123456789abcdef", GuestName: strPtr("Dana Levi!"), TableNumber: intPtr(4)},
			want: "memory_DanaLevi_table4_01234567.jpg",
		},
		{
			name: "anonymous without table",
			sub:  models.Submission{ID: "abcdefgh-1234"},
			want: "memory_guest_abcdefgh.jpg",
		},
		{
			name: "name with only symbols",
			sub:  models.Submission{ID: "ffffffffffff", GuestName: strPtr("דנה ❤"), TableNumber: intPtr(12)},
			want: "memory_guest_table12_ffffffff.jpg",
		},
		{
			name: "short id",
			sub:  models.Submission{ID: "abc", GuestName: strPtr("Yo")},
			want: "memory_Yo_abc.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.sub))
		})
	}
}

func TestRunContinuesOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/media/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	e, err := NewExporter(dir, srv.URL, zerolog.Nop(), WithDelay(time.Millisecond))
	require.NoError(t, err)

	subs := []models.Submission{
		{ID: "aaaaaaaa1", PhotoURL: "/media/a.jpg"},
		{ID: "bbbbbbbb2", PhotoURL: "/media/missing.jpg"},
		{ID: "cccccccc3", PhotoURL: srv.URL + "/media/c.jpg", TableNumber: intPtr(2)},
	}
	res, err := e.Run(context.Background(), subs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Saved)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, int64(18), res.Bytes)

	data, err := os.ReadFile(filepath.Join(dir, "memory_guest_aaaaaaaa.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.FileExists(t, filepath.Join(dir, "memory_guest_table2_cccccccc.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "memory_guest_bbbbbbbb.jpg"))
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	e, err := NewExporter(t.TempDir(), srv.URL, zerolog.Nop(), WithDelay(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	res, err := e.Run(ctx, []models.Submission{
		{ID: "11111111", PhotoURL: "/a.jpg"},
		{ID: "22222222", PhotoURL: "/b.jpg"},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Saved)
}

func TestRunKeepsSameNamedPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(filepath.Base(r.URL.Path)))
	}))
	defer srv.Close()

	dir := t.TempDir()
	e, err := NewExporter(dir, srv.URL, zerolog.Nop(), WithDelay(0))
	require.NoError(t, err)

	// Same leading eight id characters and no name: identical FileName.
	subs := []models.Submission{
		{ID: "01a1534e-0001", PhotoURL: "/media/one.jpg"},
		{ID: "01a1534e-0002", PhotoURL: "/media/two.jpg"},
		{ID: "01a1534e-0003", PhotoURL: "/media/three.jpg"},
	}
	res, err := e.Run(context.Background(), subs)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Saved)

	for file, body := range map[string]string{
		"memory_guest_01a1534e.jpg":   "one.jpg",
		"memory_guest_01a1534e_2.jpg": "two.jpg",
		"memory_guest_01a1534e_3.jpg": "three.jpg",
	} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, file)
		assert.Equal(t, body, string(data))
	}
}
