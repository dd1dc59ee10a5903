package models

import (
	"encoding/json"
	"time"
)

// Attachment describes one stored template attachment.
type Attachment struct {
	Filename string `json:"filename"` // Original upload name, shown to recipients
	Path     string `json:"path"`     // Storage path on disk
}

// Template is a reusable subject/content pair. Subject and content may
// contain placeholder tokens; content is HTML and may reference uploaded
// images. Attachments holds a JSON array of Attachment.
type Template struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Subject     string    `db:"subject" json:"subject"`
	Content     string    `db:"content" json:"content"`
	Attachments string    `db:"attachments" json:"attachments"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AttachmentList decodes the stored attachments JSON. A malformed or empty
// value yields no attachments.
func (t *Template) AttachmentList() []Attachment {
	if t.Attachments == "" {
		return nil
	}
	var list []Attachment
	if err := json.Unmarshal([]byte(t.Attachments), &list); err != nil {
		return nil
	}
	return list
}

// EncodeAttachments serializes a list for storage.
func EncodeAttachments(list []Attachment) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}
