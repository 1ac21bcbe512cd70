// Package qr renders the submission links printed on each table.
package qr

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 128
	MaxSize     = 1024
)

// Code is one printable QR code.
type Code struct {
	Table    int    `json:"table,omitempty"`
	Label    string `json:"label"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// SubmitURL returns the blessing form link. Table 0 is the general link.
func SubmitURL(baseURL string, table int) string {
	u := strings.TrimRight(baseURL, "/") + "/submit"
	if table > 0 {
		u += "?" + url.Values{"table": {strconv.Itoa(table)}}.Encode()
	}
	return u
}

// ForTable describes the code for one table, or the general code for 0.
func ForTable(baseURL string, table int) Code {
	if table <= 0 {
		return Code{Label: "General", FileName: "qr_general.png", URL: SubmitURL(baseURL, 0)}
	}
	return Code{
		Table:    table,
		Label:    fmt.Sprintf("Table %d", table),
		FileName: fmt.Sprintf("qr_table_%d.png", table),
		URL:      SubmitURL(baseURL, table),
	}
}

// Batch lists the codes for tables 1..tables, led by the general code when
// general is set.
func Batch(baseURL string, tables int, general bool) []Code {
	var codes []Code
	if general {
		codes = append(codes, ForTable(baseURL, 0))
	}
	for t := 1; t <= tables; t++ {
		codes = append(codes, ForTable(baseURL, t))
	}
	return codes
}

// ClampSize keeps size within MinSize..MaxSize; zero means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

// PNG renders content as a PNG image of size pixels.
func PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, ClampSize(size))
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// Terminal renders content as block characters for a terminal.
func Terminal(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return q.ToSmallString(false), nil
}

// WriteAll writes each code as a PNG file into dir.
func WriteAll(dir string, codes []Code, size int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, c := range codes {
		png, err := PNG(c.URL, size)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Label, err)
		}
		if err := os.WriteFile(filepath.Join(dir, c.FileName), png, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.FileName, err)
		}
	}
	return nil
}
