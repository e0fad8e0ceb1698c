// Package apitest runs an in-memory stand-in for the SaaS backend API.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/naveenspark/saasdash/pkg/domain"
)

// Request is one call the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type account struct {
	name     string
	password string
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend. Zero-value fields are served as empty payloads.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	Users      []domain.User
	Summary    domain.DashboardSummary
	Revenue    []domain.RevenueRecord
	Sessions   []domain.SessionRecord
	Profile    domain.Profile
	LoginToken string

	accounts map[string]account
	tokens   map[string]bool
	failures map[string]failure
	requests []Request
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		LoginToken: "tok123",
		accounts:   map[string]account{},
		tokens:     map[string]bool{},
		failures:   map[string]failure{},
		Profile:    domain.Profile{Name: "Test User", Email: "test@example.com"},
	}

	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)
	r.Post("/api/login", s.login)
	r.Post("/api/auth/register", s.register)
	r.Get("/api/users", s.listUsers)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/api/logout", s.logout)
		r.Get("/api/dashboard/data", s.summary)
		r.Get("/api/dashboard/revenue-history", s.revenue)
		r.Get("/api/dashboard/session-history", s.sessions)
		r.Get("/api/profile", s.getProfile)
		r.Put("/api/profile", s.updateProfile)
		r.Put("/api/profile/skills", s.addSkill)
		r.Put("/api/profile/image", s.uploadImage)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// AddAccount registers credentials that /api/login accepts.
func (s *Server) AddAccount(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{name: name, password: password}
}

// IssueToken marks tok as valid for bearer-authenticated routes.
func (s *Server) IssueToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok] = true
}

// TokenValid reports whether tok is currently accepted.
func (s *Server) TokenValid(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tok]
}

// Fail makes method+path answer status with {"error": msg}. An empty msg
// sends an empty body.
func (s *Server) Fail(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: msg}
}

// CurrentProfile returns the profile as the server now holds it.
func (s *Server) CurrentProfile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.Profile
	p.Skills = append([]domain.Skill(nil), s.Profile.Skills...)
	return p
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountPath returns how many requests hit path.
func (s *Server) CountPath(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// -- middleware --

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.message == "" {
			w.WriteHeader(f.status)
			return
		}
		writeError(w, f.status, f.message)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !s.TokenValid(tok) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- handlers --

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	tok := s.LoginToken
	if ok && acct.password == creds.Password {
		s.tokens[tok] = true
	}
	s.mu.Unlock()
	if !ok || acct.password != creds.Password {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	_, exists := s.accounts[reg.Email]
	if !exists {
		s.accounts[reg.Email] = account{name: reg.Name, password: reg.Password}
	}
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := append([]domain.User{}, s.Users...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) summary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	sum := s.Summary
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) revenue(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	recs := append([]domain.RevenueRecord{}, s.Revenue...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) sessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	recs := append([]domain.SessionRecord{}, s.Sessions...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	p := s.Profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var u domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	s.Profile.Name = u.Name
	s.Profile.Email = u.Email
	p := s.Profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": p})
}

func (s *Server) addSkill(w http.ResponseWriter, r *http.Request) {
	var sk domain.Skill
	if err := json.NewDecoder(r.Body).Decode(&sk); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	s.Profile.Skills = append(s.Profile.Skills, sk)
	skills := append([]domain.Skill{}, s.Profile.Skills...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"skills": skills})
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("profileImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()        //nolint:errcheck
	io.Copy(io.Discard, f) //nolint:errcheck
	url := fmt.Sprintf("%s/uploads/%s", s.URL, hdr.Filename)
	s.mu.Lock()
	s.Profile.ProfileImage = url
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"profileImage": url})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
