package sender

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func TestInlineLocalImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "logo.png"), pngBytes, 0644); err != nil {
		t.Fatal(err)
	}

	html := `<p>hi</p><img src="/uploads/images/logo.png" alt="logo">`
	got := InlineLocalImages(html, dir, testLogger())

	wantData := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	if !strings.Contains(got, wantData) {
		t.Errorf("image was not inlined: %q", got)
	}
	if strings.Contains(got, `src="/uploads/`) {
		t.Errorf("original reference still present: %q", got)
	}
	// Surrounding markup untouched.
	if !strings.HasPrefix(got, "<p>hi</p>") || !strings.Contains(got, `alt="logo"`) {
		t.Errorf("markup was rewritten: %q", got)
	}
}

func TestInlineLocalImagesMissingFile(t *testing.T) {
	html := `<img src="/uploads/images/gone.png">`
	got := InlineLocalImages(html, t.TempDir(), testLogger())
	if got != html {
		t.Errorf("unresolvable reference must stay unchanged, got %q", got)
	}
}

func TestInlineLocalImagesForeignSources(t *testing.T) {
	html := `<img src="https://cdn.example.com/a.png"><img src="cid:embedded">`
	got := InlineLocalImages(html, t.TempDir(), testLogger())
	if got != html {
		t.Errorf("non-upload references must stay unchanged, got %q", got)
	}
}

func TestInlineLocalImagesRepeatedReference(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), pngBytes, 0644); err != nil {
		t.Fatal(err)
	}
	html := `<img src="/uploads/a.png"><img src="/uploads/a.png">`
	got := InlineLocalImages(html, dir, testLogger())
	if strings.Count(got, "data:image/png;base64,") != 2 {
		t.Errorf("both occurrences should be inlined: %q", got)
	}
}
