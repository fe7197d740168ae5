// Package web exposes the HTTP surface: the public snapshot and display
// endpoints, the authenticated admin API and the embedded static pages.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"pujadisplay/internal/auth"
	"pujadisplay/internal/config"
	"pujadisplay/internal/display"
	applog "pujadisplay/internal/log"
	"pujadisplay/internal/model"
	"pujadisplay/internal/store"
)

// Server wires the store, auth service and display controller into an
// http.Handler.
type Server struct {
	cfg  *config.Config
	st   store.Store
	auth *auth.Service
	ctrl *display.Controller
	mux  *http.ServeMux
}

// embeddedStatic holds the display and admin pages. Styling lives with the
// deployment; these pages are deliberately bare.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a Server and registers all routes.
func NewServer(cfg *config.Config, st store.Store, authSvc *auth.Service, ctrl *display.Controller) *Server {
	s := &Server{
		cfg:  cfg,
		st:   st,
		auth: authSvc,
		ctrl: ctrl,
		mux:  http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/logout", s.handleLogout)

	s.mux.HandleFunc("GET /api/pujas", s.handleListPujas)
	s.mux.HandleFunc("POST /api/pujas", s.handleAddPuja)
	s.mux.HandleFunc("DELETE /api/pujas/{id}", s.handleDeletePuja)
	s.mux.HandleFunc("GET /api/pujas.ics", s.handleICSFeed)

	s.mux.HandleFunc("GET /api/display", s.handleDisplayFrame)

	s.mux.HandleFunc("GET /api/admins", s.handleListAdmins)
	s.mux.HandleFunc("POST /api/admins", s.handleAddAdmin)
	s.mux.HandleFunc("DELETE /api/admins/{id}", s.handleDeleteAdmin)

	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// --- auth plumbing ---

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// session resolves the request's session, writing a 401 when absent or
// expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	sess, ok := s.auth.Session(bearerToken(r))
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required")
		return auth.Session{}, false
	}
	return sess, true
}

// superAdmin resolves the request's session and requires the super-admin
// role, writing 401/403 as appropriate.
func (s *Server) superAdmin(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	sess, ok := s.auth.Session(bearerToken(r))
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required")
		return auth.Session{}, false
	}
	if sess.Role != model.RoleSuperAdmin {
		writeError(w, http.StatusForbidden, "Super admin only")
		return auth.Session{}, false
	}
	return sess, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string     `json:"token"`
	Role     model.Role `json:"role"`
	Username string     `json:"username"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		applog.Error("login failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    sess.Token,
		Role:     sess.Role,
		Username: sess.Username,
	})
}

// handleLogout revokes the presented token. Always succeeds; revoking an
// unknown or already-expired token is not an error worth surfacing.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- puja endpoints ---

// pujasDoc is the snapshot wire shape: {"pujas": [...]}.
type pujasDoc struct {
	Pujas []model.Puja `json:"pujas"`
}

// handleListPujas serves the full record list. Public and CORS-open so
// remote display boxes can poll it from another origin.
func (s *Server) handleListPujas(w http.ResponseWriter, r *http.Request) {
	pujas, err := s.st.ListPujas(r.Context())
	if err != nil {
		applog.Error("list pujas failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to load pujas")
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, pujasDoc{Pujas: pujas})
}

// addPujaRequest mirrors model.Puja but keeps IsActive nullable: a payload
// that omits it means active, while an explicit false deactivates.
type addPujaRequest struct {
	Title     string         `json:"title"`
	StartDate string         `json:"startDate"`
	StartTime string         `json:"startTime"`
	EndDate   string         `json:"endDate"`
	EndTime   string         `json:"endTime"`
	Details   []model.Detail `json:"details"`
	ImageURL  string         `json:"imageUrl"`
	IsActive  *bool          `json:"isActive"`
}

func (s *Server) handleAddPuja(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session(w, r); !ok {
		return
	}

	var req addPujaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.StartDate) == "" {
		writeError(w, http.StatusBadRequest, "Title and start date are required")
		return
	}

	p := model.Puja{
		Title:     strings.TrimSpace(req.Title),
		StartDate: strings.TrimSpace(req.StartDate),
		StartTime: strings.TrimSpace(req.StartTime),
		EndDate:   strings.TrimSpace(req.EndDate),
		EndTime:   strings.TrimSpace(req.EndTime),
		Details:   req.Details,
		ImageURL:  req.ImageURL,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}

	created, err := s.st.AddPuja(r.Context(), p)
	if err != nil {
		applog.Error("add puja failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to add puja")
		return
	}

	applog.Info("puja added", "id", created.ID, "title", created.Title, "by", s.requestUser(r))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeletePuja(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if err := s.st.DeletePuja(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No such puja")
			return
		}
		applog.Error("delete puja failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}

	applog.Info("puja deleted", "id", id, "by", s.requestUser(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDisplayFrame serves the presentation driver's current frame.
func (s *Server) handleDisplayFrame(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, s.ctrl.Frame())
}

// --- admin endpoints ---

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.superAdmin(w, r); !ok {
		return
	}

	admins, err := s.st.ListAdmins(r.Context())
	if err != nil {
		applog.Error("list admins failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to load admins")
		return
	}

	// The bootstrap super admin is config-seeded, not a store record;
	// surface it so the UI always shows who owns the instance.
	out := []model.Admin{{
		ID:       auth.SuperAdminID,
		Username: s.auth.SuperUsername(),
		Role:     model.RoleSuperAdmin,
	}}
	out = append(out, admins...)

	writeJSON(w, http.StatusOK, out)
}

type addAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.superAdmin(w, r); !ok {
		return
	}

	var req addAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}
	if req.Username == s.auth.SuperUsername() {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	created, err := s.st.AddAdmin(r.Context(), model.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		applog.Error("add admin failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "Failed to add admin")
		return
	}

	applog.Info("admin added", "username", created.Username)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.superAdmin(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == auth.SuperAdminID {
		writeError(w, http.StatusBadRequest, "Cannot delete super admin")
		return
	}

	if err := s.st.DeleteAdmin(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No such admin")
			return
		}
		applog.Error("delete admin failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- static files ---

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		applog.Error("embedded static filesystem unavailable", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// API misses must 404 as JSON-era clients expect, not fall
		// through to HTML.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		// /admin is a page, not a directory.
		if path == "/admin" {
			r = r.Clone(r.Context())
			r.URL.Path = "/admin.html"
		}

		fileServer.ServeHTTP(w, r)
	})
}

// --- helpers ---

func (s *Server) requestUser(r *http.Request) string {
	if sess, ok := s.auth.Session(bearerToken(r)); ok {
		return sess.Username
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
