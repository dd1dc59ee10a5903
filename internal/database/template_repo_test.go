package database

import (
	"context"
	"errors"
	"testing"

	"github.com/Celestebz/sendemail/pkg/models"
)

func TestTemplateCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tmpl := &models.Template{Name: "欢迎邮件", Subject: "你好 {{联系人姓名}}", Content: "<p>欢迎</p>"}
	if err := db.CreateTemplate(ctx, tmpl); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := db.GetTemplateByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Attachments != "[]" {
		t.Errorf("attachments default = %q, want []", got.Attachments)
	}

	got.Subject = "改过的主题"
	got.Attachments = models.EncodeAttachments([]models.Attachment{
		{Filename: "报价.pdf", Path: "uploads/abc.pdf"},
	})
	if err := db.UpdateTemplate(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	again, err := db.GetTemplateByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Subject != "改过的主题" {
		t.Errorf("subject = %q", again.Subject)
	}
	atts := again.AttachmentList()
	if len(atts) != 1 || atts[0].Filename != "报价.pdf" {
		t.Errorf("attachments = %+v", atts)
	}

	if err := db.DeleteTemplate(ctx, tmpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetTemplateByID(ctx, tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateTemplateNotFound(t *testing.T) {
	db := newTestDB(t)
	tmpl := &models.Template{ID: 9999, Name: "n", Subject: "s", Content: "c", Attachments: "[]"}
	if err := db.UpdateTemplate(context.Background(), tmpl); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
