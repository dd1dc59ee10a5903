// Package server exposes the HTTP JSON API consumed by the web UI.
package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Celestebz/sendemail/internal/config"
	"github.com/Celestebz/sendemail/internal/contacts"
	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/internal/sender"
)

// Deps wires the server's collaborators.
type Deps struct {
	Config   *config.Config
	DB       *database.DB
	Sender   *sender.Sender
	Importer *contacts.Importer
	Logger   *slog.Logger
}

// Server handles all API routes.
type Server struct {
	cfg      *config.Config
	db       *database.DB
	sender   *sender.Sender
	importer *contacts.Importer
	logger   *slog.Logger
}

// New creates a server
func New(deps Deps) *Server {
	return &Server{
		cfg:      deps.Config,
		db:       deps.DB,
		sender:   deps.Sender,
		importer: deps.Importer,
		logger:   deps.Logger,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	c := api.PathPrefix("/contacts").Subrouter()
	c.HandleFunc("", s.handleListContacts).Methods(http.MethodGet)
	c.HandleFunc("", s.handleCreateContact).Methods(http.MethodPost)
	c.HandleFunc("/import", s.handleImportContacts).Methods(http.MethodPost)
	c.HandleFunc("/import/template", s.handleImportTemplate).Methods(http.MethodGet)
	c.HandleFunc("/export/csv", s.handleExportContacts).Methods(http.MethodGet)
	c.HandleFunc("/{id:[0-9]+}", s.handleGetContact).Methods(http.MethodGet)
	c.HandleFunc("/{id:[0-9]+}", s.handleUpdateContact).Methods(http.MethodPut)
	c.HandleFunc("/{id:[0-9]+}", s.handleDeleteContact).Methods(http.MethodDelete)

	g := api.PathPrefix("/groups").Subrouter()
	g.HandleFunc("", s.handleListGroups).Methods(http.MethodGet)
	g.HandleFunc("", s.handleCreateGroup).Methods(http.MethodPost)
	g.HandleFunc("/{id:[0-9]+}", s.handleDeleteGroup).Methods(http.MethodDelete)

	t := api.PathPrefix("/templates").Subrouter()
	t.HandleFunc("", s.handleListTemplates).Methods(http.MethodGet)
	t.HandleFunc("", s.handleCreateTemplate).Methods(http.MethodPost)
	t.HandleFunc("/upload-image", s.handleUploadImage).Methods(http.MethodPost)
	t.HandleFunc("/{id:[0-9]+}", s.handleGetTemplate).Methods(http.MethodGet)
	t.HandleFunc("/{id:[0-9]+}", s.handleUpdateTemplate).Methods(http.MethodPut)
	t.HandleFunc("/{id:[0-9]+}", s.handleDeleteTemplate).Methods(http.MethodDelete)
	t.HandleFunc("/{id:[0-9]+}/preview", s.handlePreviewTemplate).Methods(http.MethodPost)

	st := api.PathPrefix("/settings").Subrouter()
	st.HandleFunc("", s.handleGetSettings).Methods(http.MethodGet)
	st.HandleFunc("", s.handleSaveSettings).Methods(http.MethodPost)
	st.HandleFunc("/test-smtp", s.handleTestSMTP).Methods(http.MethodPost)
	st.HandleFunc("/test-imap", s.handleTestIMAP).Methods(http.MethodPost)

	e := api.PathPrefix("/email").Subrouter()
	e.HandleFunc("/send", s.handleSend).Methods(http.MethodPost)
	e.HandleFunc("/records", s.handleListRecords).Methods(http.MethodGet)
	e.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	e.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	// Uploaded attachments and editor images.
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadsDir))))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondSuccess(w, "批量发邮件服务运行正常", nil)
}

// pathID extracts the {id} route variable.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
