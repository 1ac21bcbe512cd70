package qr

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitURL(t *testing.T) {
	assert.Equal(t, "https://wed.example/submit", SubmitURL("https://wed.example/", 0))
	assert.Equal(t, "https://wed.example/submit?table=7", SubmitURL("https://wed.example", 7))
}

func TestBatch(t *testing.T) {
	codes := Batch("http://localhost:3000", 3, true)
	require.Len(t, codes, 4)
	assert.Equal(t, "General", codes[0].Label)
	assert.Equal(t, "qr_general.png", codes[0].FileName)
	assert.Equal(t, "Table 3", codes[3].Label)
	assert.Equal(t, "qr_table_3.png", codes[3].FileName)
	assert.Equal(t, "http://localhost:3000/submit?table=3", codes[3].URL)

	assert.Len(t, Batch("http://x", 2, false), 2)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSize, ClampSize(0))
	assert.Equal(t, MinSize, ClampSize(10))
	assert.Equal(t, MaxSize, ClampSize(5000))
	assert.Equal(t, 300, ClampSize(300))
}

func TestPNG(t *testing.T) {
	data, err := PNG(SubmitURL("https://wed.example", 1), 256)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "codes")
	require.NoError(t, WriteAll(dir, Batch("https://wed.example", 2, true), 128))

	for _, name := range []string{"qr_general.png", "qr_table_1.png", "qr_table_2.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}

func TestTerminal(t *testing.T) {
	s, err := Terminal("https://wed.example/submit")
	require.NoError(t, err)
	assert.NotEmpty(t, s)
}
