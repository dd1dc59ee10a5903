package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/pkg/models"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.db.ListGroups(r.Context())
	if err != nil {
		s.serverError(w, "failed to list groups", err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	s.respondSuccess(w, "", groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "分组名称不能为空")
		return
	}

	group := &models.Group{Name: name}
	err := s.db.CreateGroup(r.Context(), group)
	if errors.Is(err, database.ErrAlreadyExists) {
		s.respondError(w, http.StatusBadRequest, "该分组已存在")
		return
	}
	if err != nil {
		s.serverError(w, "failed to create group", err)
		return
	}
	s.respondSuccess(w, "分组添加成功", map[string]int64{"id": group.ID})
}

// handleDeleteGroup detaches member contacts (group reference set to null)
// and deletes the group; the contacts themselves survive.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteGroup(r.Context(), pathID(r)); err != nil {
		s.serverError(w, "failed to delete group", err)
		return
	}
	s.respondSuccess(w, "分组删除成功", nil)
}
