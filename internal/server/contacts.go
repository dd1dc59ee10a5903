package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Celestebz/sendemail/internal/contacts"
	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/pkg/models"
)

type contactRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	GroupID   *int64 `json:"group_id"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	filter := database.ContactFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("group_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "无效的分组ID")
			return
		}
		filter.GroupID = &id
	}

	list, err := s.db.ListContacts(r.Context(), filter)
	if err != nil {
		s.serverError(w, "failed to list contacts", err)
		return
	}
	if list == nil {
		list = []*models.Contact{}
	}
	s.respondSuccess(w, "", list)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}

	name, first, last := contacts.NormalizeName(req.Name, req.FirstName, req.LastName)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		s.respondError(w, http.StatusBadRequest, "姓名和邮箱为必填字段")
		return
	}

	contact := &models.Contact{
		Name:      name,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Company:   req.Company,
		Phone:     req.Phone,
		GroupID:   req.GroupID,
		Notes:     req.Notes,
		Status:    models.ContactStatusActive,
	}
	err := s.db.CreateContact(r.Context(), contact)
	if errors.Is(err, database.ErrAlreadyExists) {
		s.respondError(w, http.StatusBadRequest, "该邮箱已存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to create contact", err)
		return
	}
	s.respondSuccess(w, "客户创建成功", map[string]int64{"id": contact.ID})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := s.db.GetContactByID(r.Context(), pathID(r))
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "客户不存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to get contact", err)
		return
	}
	s.respondSuccess(w, "", contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}

	name, first, last := contacts.NormalizeName(req.Name, req.FirstName, req.LastName)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		s.respondError(w, http.StatusBadRequest, "姓名和邮箱为必填字段")
		return
	}
	status := req.Status
	if status == "" {
		status = models.ContactStatusActive
	}

	contact := &models.Contact{
		ID:        pathID(r),
		Name:      name,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Company:   req.Company,
		Phone:     req.Phone,
		GroupID:   req.GroupID,
		Notes:     req.Notes,
		Status:    status,
	}
	err := s.db.UpdateContact(r.Context(), contact)
	if errors.Is(err, database.ErrAlreadyExists) {
		s.respondError(w, http.StatusBadRequest, "该邮箱已被其他客户使用")
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "客户不存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to update contact", err)
		return
	}
	s.respondSuccess(w, "客户更新成功", nil)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteContact(r.Context(), pathID(r)); err != nil {
		s.serverError(w, "failed to delete contact", err)
		return
	}
	s.respondSuccess(w, "客户删除成功", nil)
}

func (s *Server) handleImportContacts(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "请选择要导入的文件")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
		s.respondError(w, http.StatusBadRequest, "只支持Excel和CSV文件")
		return
	}

	// Spool the upload to disk; the file is removed again after the run
	// whatever the outcome.
	path := filepath.Join(s.cfg.UploadsDir, "import-"+uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		s.serverError(w, "failed to store import file", err)
		return
	}
	defer os.Remove(path)

	_, err = io.Copy(dst, file)
	dst.Close()
	if err != nil {
		s.serverError(w, "failed to store import file", err)
		return
	}

	result, err := s.importer.ImportFile(r.Context(), path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg := fmt.Sprintf("导入完成: 成功 %d 条，失败 %d 条", result.SuccessCount, result.ErrorCount)
	s.respondSuccess(w, msg, result)
}

func (s *Server) handleExportContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.ListContacts(r.Context(), database.ContactFilter{})
	if err != nil {
		s.serverError(w, "failed to export contacts", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=contacts.csv`)
	if err := contacts.ExportCSV(w, list); err != nil {
		s.logger.Error("failed to write contact export", "error", err)
	}
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := contacts.BuildImportTemplate()
	if err != nil {
		s.serverError(w, "failed to build import template", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename=contacts_template.xlsx`)
	if err := f.Write(w); err != nil {
		s.logger.Error("failed to write import template", "error", err)
	}
}
