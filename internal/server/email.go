package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/internal/sender"
	"github.com/Celestebz/sendemail/pkg/models"
)

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerIDs   []int64 `json:"customerIds"`
		TemplateID    int64   `json:"templateId"`
		CustomSubject string  `json:"customSubject"`
		CustomContent string  `json:"customContent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	if len(req.CustomerIDs) == 0 {
		s.respondError(w, http.StatusBadRequest, "请选择收件客户")
		return
	}

	result, err := s.sender.Send(r.Context(), sender.Request{
		ContactIDs:    req.CustomerIDs,
		TemplateID:    req.TemplateID,
		CustomSubject: req.CustomSubject,
		CustomContent: req.CustomContent,
	})
	switch {
	case errors.Is(err, sender.ErrNoSettings):
		s.respondError(w, http.StatusBadRequest, "请先配置邮箱设置")
		return
	case errors.Is(err, sender.ErrTemplateNotFound):
		s.respondError(w, http.StatusBadRequest, "模板不存在")
		return
	case errors.Is(err, sender.ErrNoRecipients):
		s.respondError(w, http.StatusBadRequest, "未找到客户")
		return
	case err != nil:
		s.serverError(w, "bulk send failed", err)
		return
	}
	s.respondSuccess(w, "", result)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.RecordFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Page:      1,
		PageSize:  100,
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			filter.PageSize = size
		}
	}

	records, total, err := s.db.ListRecords(r.Context(), filter)
	if err != nil {
		s.serverError(w, "failed to list send records", err)
		return
	}
	if records == nil {
		records = []*models.SendRecord{}
	}
	s.respondSuccess(w, "", map[string]interface{}{
		"records": records,
		"total":   total,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := s.db.Statistics(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		s.serverError(w, "failed to aggregate statistics", err)
		return
	}
	s.respondSuccess(w, "", stats)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.DashboardStats(r.Context())
	if err != nil {
		s.serverError(w, "failed to get dashboard stats", err)
		return
	}
	s.respondSuccess(w, "", stats)
}
