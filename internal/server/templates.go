package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/internal/render"
	"github.com/Celestebz/sendemail/internal/sender"
	"github.com/Celestebz/sendemail/pkg/models"
)

const (
	maxTemplateForm = 32 << 20 // form incl. rich text content and attachments
	maxAttachments  = 5
	maxEditorImage  = 5 << 20
	imagesSubdir    = "images"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.ListTemplates(r.Context())
	if err != nil {
		s.serverError(w, "failed to list templates", err)
		return
	}
	if templates == nil {
		templates = []*models.Template{}
	}
	s.respondSuccess(w, "", templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.db.GetTemplateByID(r.Context(), pathID(r))
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "模板不存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to get template", err)
		return
	}
	s.respondSuccess(w, "", tmpl)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTemplateForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	subject := r.FormValue("subject")
	content := r.FormValue("content")
	if name == "" || subject == "" || content == "" {
		s.respondError(w, http.StatusBadRequest, "模板名称、主题和内容为必填字段")
		return
	}

	attachments, err := s.saveAttachments(r)
	if err != nil {
		s.serverError(w, "failed to store attachments", err)
		return
	}

	tmpl := &models.Template{
		Name:        name,
		Subject:     subject,
		Content:     content,
		Attachments: models.EncodeAttachments(attachments),
	}
	if err := s.db.CreateTemplate(r.Context(), tmpl); err != nil {
		s.serverError(w, "failed to create template", err)
		return
	}
	s.respondSuccess(w, "模板创建成功", map[string]int64{"id": tmpl.ID})
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTemplateForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	subject := r.FormValue("subject")
	content := r.FormValue("content")
	if name == "" || subject == "" || content == "" {
		s.respondError(w, http.StatusBadRequest, "模板名称、主题和内容为必填字段")
		return
	}

	// Attachments the UI chose to keep arrive as JSON strings; new uploads
	// are appended after them.
	var kept []models.Attachment
	if r.MultipartForm != nil {
		for _, raw := range r.MultipartForm.Value["existingAttachments"] {
			var a models.Attachment
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				s.logger.Warn("skipping malformed existing attachment", "value", raw)
				continue
			}
			kept = append(kept, a)
		}
	}
	added, err := s.saveAttachments(r)
	if err != nil {
		s.serverError(w, "failed to store attachments", err)
		return
	}

	tmpl := &models.Template{
		ID:          pathID(r),
		Name:        name,
		Subject:     subject,
		Content:     content,
		Attachments: models.EncodeAttachments(append(kept, added...)),
	}
	err = s.db.UpdateTemplate(r.Context(), tmpl)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "模板不存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to update template", err)
		return
	}
	s.respondSuccess(w, "模板更新成功", nil)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteTemplate(r.Context(), pathID(r)); err != nil {
		s.serverError(w, "failed to delete template", err)
		return
	}
	s.respondSuccess(w, "模板删除成功", nil)
}

func (s *Server) handlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerData struct {
			Name      string `json:"name"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Company   string `json:"company"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		} `json:"customerData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}

	preview, err := s.sender.PreviewTemplate(r.Context(), pathID(r), render.Fields{
		Name:      req.CustomerData.Name,
		FirstName: req.CustomerData.FirstName,
		LastName:  req.CustomerData.LastName,
		Company:   req.CustomerData.Company,
		Email:     req.CustomerData.Email,
		Phone:     req.CustomerData.Phone,
	})
	if errors.Is(err, sender.ErrTemplateNotFound) {
		s.respondError(w, http.StatusNotFound, "模板不存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to preview template", err)
		return
	}
	s.respondSuccess(w, "", preview)
}

// handleUploadImage stores a rich-text editor image and returns its URL.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "没有上传文件")
		return
	}
	defer file.Close()

	if header.Size > maxEditorImage {
		s.respondError(w, http.StatusBadRequest, "图片大小不能超过5MB")
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		s.respondError(w, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := s.writeUpload(file, filepath.Join(imagesSubdir, name)); err != nil {
		s.serverError(w, "failed to store image", err)
		return
	}
	s.respondSuccess(w, "", map[string]string{
		"url":      "/uploads/" + imagesSubdir + "/" + name,
		"filename": header.Filename,
	})
}

// saveAttachments stores the uploaded attachment files and returns their
// descriptors, keeping the original filename for display.
func (s *Server) saveAttachments(r *http.Request) ([]models.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["attachments"]
	if len(files) > maxAttachments {
		files = files[:maxAttachments]
	}

	var attachments []models.Attachment
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		err = s.writeUpload(src, name)
		src.Close()
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, models.Attachment{
			Filename: fh.Filename,
			Path:     filepath.Join(s.cfg.UploadsDir, name),
		})
	}
	return attachments, nil
}

// writeUpload copies src into the uploads directory under relName.
func (s *Server) writeUpload(src multipart.File, relName string) error {
	dst, err := os.Create(filepath.Join(s.cfg.UploadsDir, relName))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
