package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/internal/mailer"
	"github.com/Celestebz/sendemail/pkg/models"
)

type settingsRequest struct {
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	IMAPHost  string `json:"imap_host"`
	IMAPPort  int    `json:"imap_port"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Secure    bool   `json:"secure"`
	DefaultCC string `json:"default_cc"`
}

func (req *settingsRequest) toModel() *models.Settings {
	return &models.Settings{
		SMTPHost:  req.SMTPHost,
		SMTPPort:  req.SMTPPort,
		IMAPHost:  req.IMAPHost,
		IMAPPort:  req.IMAPPort,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Secure:    req.Secure,
		DefaultCC: req.DefaultCC,
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		s.respondSuccess(w, "", nil)
		return
	}
	if err != nil {
		s.serverError(w, "failed to get settings", err)
		return
	}
	s.respondSuccess(w, "", settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	if req.SMTPHost == "" || req.SMTPPort == 0 || req.Email == "" || req.Username == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "请填写所有必填字段")
		return
	}

	if err := s.db.SaveSettings(r.Context(), req.toModel()); err != nil {
		s.serverError(w, "failed to save settings", err)
		return
	}
	s.respondSuccess(w, "邮箱设置保存成功", nil)
}

// handleTestSMTP verifies the supplied transport settings by dialing and
// authenticating, without saving anything or sending mail.
func (s *Server) handleTestSMTP(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	if err := mailer.VerifySMTP(req.toModel()); err != nil {
		s.logger.Warn("smtp verification failed", "host", req.SMTPHost, "error", err)
		s.respondError(w, http.StatusInternalServerError, "SMTP连接测试失败: "+err.Error())
		return
	}
	s.respondSuccess(w, "SMTP连接测试成功", nil)
}

// handleTestIMAP verifies the inbound server settings with a TLS dial and
// login.
func (s *Server) handleTestIMAP(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	if err := mailer.VerifyIMAP(req.toModel()); err != nil {
		s.logger.Warn("imap verification failed", "host", req.IMAPHost, "error", err)
		s.respondError(w, http.StatusInternalServerError, "IMAP连接测试失败: "+err.Error())
		return
	}
	s.respondSuccess(w, "IMAP连接测试成功", nil)
}
