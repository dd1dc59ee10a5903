package sender

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const uploadsPrefix = "/uploads/"

// Image types the editor accepts; anything else falls back to jpeg, as a
// mail client will sniff the bytes anyway.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// InlineLocalImages rewrites every <img> reference into local upload
// storage as a base64 data URI so the image travels inside the message.
// References that cannot be resolved to a readable local file are left
// unchanged, as is all other markup: the document is only inspected, the
// replacement happens on the original string.
func InlineLocalImages(html, uploadsDir string, logger *slog.Logger) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	result := html
	seen := make(map[string]bool)
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !strings.HasPrefix(src, uploadsPrefix) || seen[src] {
			return
		}
		seen[src] = true

		rel := strings.TrimPrefix(src, uploadsPrefix)
		if rel == "" || strings.Contains(rel, "..") {
			return
		}
		full := filepath.Join(uploadsDir, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			logger.Warn("inline image unreadable, keeping reference", "src", src, "error", err)
			return
		}

		mimeType, ok := imageMIMETypes[strings.ToLower(filepath.Ext(full))]
		if !ok {
			mimeType = "image/jpeg"
		}
		uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
		result = strings.ReplaceAll(result, src, uri)
	})
	return result
}
