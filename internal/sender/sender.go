// Package sender implements the bulk send orchestrator: render, inline,
// dispatch and record, one recipient at a time.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/internal/mailer"
	"github.com/Celestebz/sendemail/internal/render"
	"github.com/Celestebz/sendemail/pkg/models"
)

// Fallback text for failure records; the history schema requires non-empty
// subject and content.
const (
	fallbackSubject = "（无主题）"
	fallbackContent = "（无内容）"
)

var (
	// ErrNoSettings means transport has never been configured.
	ErrNoSettings = errors.New("邮箱设置未配置")
	// ErrTemplateNotFound means the requested template does not exist.
	ErrTemplateNotFound = errors.New("模板不存在")
	// ErrNoRecipients means no requested contact id matched a contact.
	ErrNoRecipients = errors.New("未找到客户")
)

// Store is the subset of the database the orchestrator needs.
type Store interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	GetTemplateByID(ctx context.Context, id int64) (*models.Template, error)
	ListContactsByIDs(ctx context.Context, ids []int64) ([]*models.Contact, error)
	CreateRecord(ctx context.Context, record *models.SendRecord) error
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	Store      Store
	Transport  mailer.Transport
	UploadsDir string
	Logger     *slog.Logger
}

// Sender orchestrates bulk template sends.
type Sender struct {
	store      Store
	transport  mailer.Transport
	uploadsDir string
	logger     *slog.Logger
}

// New creates a sender
func New(deps Deps) *Sender {
	return &Sender{
		store:      deps.Store,
		transport:  deps.Transport,
		uploadsDir: deps.UploadsDir,
		logger:     deps.Logger,
	}
}

// Request is one bulk send invocation. CustomSubject/CustomContent, when
// set, override the template before rendering.
type Request struct {
	ContactIDs    []int64
	TemplateID    int64
	CustomSubject string
	CustomContent string
}

// RecipientError reports one failed recipient.
type RecipientError struct {
	Contact string `json:"customer"`
	Email   string `json:"email"`
	Error   string `json:"error"`
}

// Result summarizes a bulk send.
type Result struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []RecipientError `json:"errors"`
}

// outcome is one recipient's terminal state within a batch.
type outcome struct {
	contact *models.Contact
	err     error
}

// Send processes each requested recipient independently and in the order
// the contact lookup returns them. One recipient's failure never aborts
// the rest; every attempt leaves exactly one send record.
func (s *Sender) Send(ctx context.Context, req Request) (*Result, error) {
	settings, err := s.store.GetSettings(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoSettings
	}
	if err != nil {
		return nil, err
	}

	tmpl, err := s.store.GetTemplateByID(ctx, req.TemplateID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}

	contacts, err := s.store.ListContactsByIDs(ctx, req.ContactIDs)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoRecipients
	}

	outcomes := make([]outcome, 0, len(contacts))
	for _, contact := range contacts {
		outcomes = append(outcomes, outcome{
			contact: contact,
			err:     s.sendOne(ctx, settings, tmpl, req, contact),
		})
	}
	return reduce(outcomes), nil
}

// sendOne renders, inlines, dispatches and records a single delivery.
func (s *Sender) sendOne(ctx context.Context, settings *models.Settings, tmpl *models.Template, req Request, contact *models.Contact) error {
	subject := req.CustomSubject
	if subject == "" {
		subject = tmpl.Subject
	}
	content := req.CustomContent
	if content == "" {
		content = tmpl.Content
	}

	fields := render.ContactFields(contact)
	subject = render.Render(subject, fields)
	content = render.Render(content, fields)
	content = InlineLocalImages(content, s.uploadsDir, s.logger)

	msg := &mailer.Message{
		From:        settings.Email,
		To:          contact.Email,
		Subject:     subject,
		HTML:        content,
		Attachments: tmpl.AttachmentList(),
	}
	if cc := strings.TrimSpace(settings.DefaultCC); cc != "" {
		msg.Cc = []string{cc}
	}

	if err := s.transport.Send(settings, msg); err != nil {
		s.logger.Error("send failed", "contact", contact.Email, "error", err)
		s.record(ctx, &models.SendRecord{
			ContactID:    contact.ID,
			TemplateID:   req.TemplateID,
			Subject:      firstNonBlank(req.CustomSubject, tmpl.Subject, fallbackSubject),
			Content:      firstNonBlank(req.CustomContent, tmpl.Content, fallbackContent),
			Status:       models.SendStatusFailed,
			ErrorMessage: err.Error(),
		})
		return err
	}

	s.record(ctx, &models.SendRecord{
		ContactID:  contact.ID,
		TemplateID: req.TemplateID,
		Subject:    subject,
		Content:    content,
		Status:     models.SendStatusSuccess,
	})
	return nil
}

// record appends a history row; a store failure here is logged, never
// fatal to the batch.
func (s *Sender) record(ctx context.Context, rec *models.SendRecord) {
	if err := s.store.CreateRecord(ctx, rec); err != nil {
		s.logger.Error("failed to write send record", "contact_id", rec.ContactID, "error", err)
	}
}

// reduce folds the ordered outcome list into summary counts.
func reduce(outcomes []outcome) *Result {
	result := &Result{Total: len(outcomes), Errors: []RecipientError{}}
	for _, o := range outcomes {
		if o.err == nil {
			result.Success++
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors, RecipientError{
			Contact: o.contact.Name,
			Email:   o.contact.Email,
			Error:   o.err.Error(),
		})
	}
	return result
}

// Preview renders a template against ad-hoc contact data without touching
// transport or history.
type Preview struct {
	Subject     string              `json:"subject"`
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

// PreviewTemplate renders template id against the supplied fields.
func (s *Sender) PreviewTemplate(ctx context.Context, templateID int64, fields render.Fields) (*Preview, error) {
	tmpl, err := s.store.GetTemplateByID(ctx, templateID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Preview{
		Subject:     render.Render(tmpl.Subject, fields),
		Content:     render.Render(tmpl.Content, fields),
		Attachments: tmpl.AttachmentList(),
	}, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
