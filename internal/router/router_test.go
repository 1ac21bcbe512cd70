package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-memories/internal/auth"
	"wedding-memories/internal/feed"
	"wedding-memories/internal/handler"
	"wedding-memories/internal/media"
	"wedding-memories/internal/moderation"
	"wedding-memories/internal/stats"
	"wedding-memories/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()
	dir := t.TempDir()

	store, err := storage.NewStorage(storage.DriverSQLite, filepath.Join(dir, "wedding.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mediaDir := filepath.Join(dir, "media")
	photos, err := media.NewLocalStore(mediaDir, "/media", log)
	require.NoError(t, err)

	wall := stats.NewWall(store, nil)
	guestbook := stats.NewGuestbook(store)
	f := feed.New(feed.NewHub(log), log)

	h := handler.New(handler.Deps{
		Store:          store,
		Photos:         photos,
		Gate:           auth.NewGate("pw"),
		Wall:           wall,
		Guestbook:      guestbook,
		Moderation:     moderation.NewCoordinator(store, photos, wall, guestbook, f, log),
		Feed:           f,
		PublicBaseURL:  "http://localhost:3000",
		MaxUploadBytes: 1 << 20,
		Log:            log,
	})
	return NewRouter(h, Options{MediaDir: mediaDir, Log: log}), mediaDir
}

func TestRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/music", http.StatusOK},
		{http.MethodGet, "/api/submissions", http.StatusOK},
		{http.MethodGet, "/api/rsvp", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/submissions", http.StatusUnauthorized},
		{http.MethodGet, "/api/qr", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/music", nil)
	req.Header.Set("Origin", "https://guest.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticMedia(t *testing.T) {
	r, mediaDir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, media.Folder, "a.jpg"), []byte("jpeg"), 0644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/wedding-memories/a.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
}
