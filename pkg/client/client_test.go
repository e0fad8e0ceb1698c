package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naveenspark/saasdash/pkg/domain"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) { return string(s), s != "" }

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login sent Authorization = %q, want none", auth)
		}
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck
		if creds.Email != "a@b.com" || creds.Password != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok123"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tok, err := c.Login(context.Background(), domain.Credentials{Email: "a@b.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok != "tok123" {
		t.Errorf("token = %q, want %q", tok, "tok123")
	}

	_, err = c.Login(context.Background(), domain.Credentials{Email: "a@b.com", Password: "nope"})
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if got := Message(err); got != "Invalid credentials" {
		t.Errorf("Message = %q, want %q", got, "Invalid credentials")
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Errorf("IsStatus(400) = false, err = %v", err)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{}) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Login(context.Background(), domain.Credentials{Email: "a", Password: "b"})
	if err == nil {
		t.Fatal("expected error when response has no token")
	}
}

func TestAuthedCall_SendsBearer(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(domain.DashboardSummary{TotalUsers: 3, TotalSessions: 7, TotalRevenue: 12.5}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok123"))
	s, err := c.DashboardSummary(context.Background())
	if err != nil {
		t.Fatalf("DashboardSummary() error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
	if gotReqID == "" {
		t.Error("X-Request-Id header missing")
	}
	if s.TotalUsers != 3 || s.TotalSessions != 7 || s.TotalRevenue != 12.5 {
		t.Errorf("summary = %+v", *s)
	}
}

func TestAuthedCall_NoTokenSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	calls := map[string]func() error{
		"DashboardSummary": func() error { _, err := c.DashboardSummary(context.Background()); return err },
		"RevenueHistory":   func() error { _, err := c.RevenueHistory(context.Background()); return err },
		"SessionHistory":   func() error { _, err := c.SessionHistory(context.Background()); return err },
		"GetProfile":       func() error { _, err := c.GetProfile(context.Background()); return err },
		"Logout":           func() error { return c.Logout(context.Background()) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("%s error = %v, want ErrNotAuthenticated", name, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hits = %d, want 0", n)
	}

	if _, err := New(srv.URL, nil).GetProfile(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("nil token source error = %v, want ErrNotAuthenticated", err)
	}
}

func TestListUsers_NoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, want none", auth)
		}
		w.Write([]byte(`[{"_id":"u1","name":"Ann","email":"ann@x.io","dateOfRegistration":"2024-01-02T00:00:00Z"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	users, err := New(srv.URL, staticTokens("tok")).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("len = %d, want 1", len(users))
	}
	if users[0].ID != "u1" || users[0].Name != "Ann" {
		t.Errorf("user = %+v", users[0])
	}
	if users[0].DateOfRegistration.Year() != 2024 {
		t.Errorf("DateOfRegistration = %v", users[0].DateOfRegistration)
	}
}

func TestHistories_PreserveServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard/revenue-history":
			w.Write([]byte(`[{"_id":"b","date":"2024-02-01T00:00:00Z","revenue":20},{"_id":"a","date":"2024-01-01T00:00:00Z","revenue":10}]`)) //nolint:errcheck
		case "/api/dashboard/session-history":
			w.Write([]byte(`[{"sessionId":"s2","userName":"Bo","email":"b@x","startTime":"2024-01-01T10:00:00Z","duration":30,"status":"expired"},{"sessionId":"s1","userName":"Al","email":"a@x","startTime":"2024-01-01T09:00:00Z","duration":"1h","status":"active"}]`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	rev, err := c.RevenueHistory(context.Background())
	if err != nil {
		t.Fatalf("RevenueHistory() error: %v", err)
	}
	if len(rev) != 2 || rev[0].ID != "b" || rev[1].ID != "a" {
		t.Errorf("revenue order = %+v", rev)
	}

	sess, err := c.SessionHistory(context.Background())
	if err != nil {
		t.Fatalf("SessionHistory() error: %v", err)
	}
	if len(sess) != 2 || sess[0].SessionID != "s2" {
		t.Fatalf("session order = %+v", sess)
	}
	if sess[0].Duration.String() != "30" || sess[1].Duration.String() != "1h" {
		t.Errorf("durations = %q, %q", sess[0].Duration, sess[1].Duration)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantOr   string
		wantCode int
	}{
		{"error field", 400, `{"error":"Email taken"}`, "Email taken", "Email taken", 400},
		{"message field", 409, `{"message":"Already exists"}`, "Already exists", "Already exists", 409},
		{"error wins over message", 400, `{"error":"A","message":"B"}`, "A", "A", 400},
		{"plain text", 400, "bad input", "bad input", "bad input", 400},
		{"empty body", 500, "", "Internal Server Error", "fallback", 500},
		{"json without fields", 404, `{}`, "Not Found", "fallback", 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).ListUsers(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := Message(err); got != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got, tt.wantMsg)
			}
			if got := MessageOr(err, "fallback"); got != tt.wantOr {
				t.Errorf("MessageOr = %q, want %q", got, tt.wantOr)
			}
			if !IsStatus(err, tt.wantCode) {
				t.Errorf("IsStatus(%d) = false", tt.wantCode)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !IsTransport(err) {
		t.Errorf("IsTransport = false, err = %v", err)
	}
	if got := Message(err); got != TransportFailureMessage {
		t.Errorf("Message = %q, want %q", got, TransportFailureMessage)
	}
	if got := MessageOr(err, "Registration failed"); got != "Registration failed" {
		t.Errorf("MessageOr = %q, want fallback", got)
	}
}

func TestNonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>maintenance</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Login(context.Background(), domain.Credentials{Email: "a@b.com", Password: "pw"})
	if err == nil {
		t.Fatal("expected error for an HTML body")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusOK {
		t.Fatalf("err = %v, want *HTTPError with status 200", err)
	}
	if got := Message(err); got != "unexpected response from server" {
		t.Errorf("Message = %q, want %q", got, "unexpected response from server")
	}
}

func TestWithTimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 7 * time.Second}
	for _, opts := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(time.Second)},
		{WithTimeout(time.Second), WithHTTPClient(shared)},
	} {
		c := New("http://example.invalid", staticTokens("tok"), opts...)
		if shared.Timeout != 7*time.Second {
			t.Fatalf("shared client timeout = %v, want 7s", shared.Timeout)
		}
		for _, auth := range []bool{false, true} {
			hc, err := c.httpFor(auth)
			if err != nil {
				t.Fatalf("httpFor(%v): %v", auth, err)
			}
			if hc.Timeout != time.Second {
				t.Errorf("httpFor(%v) timeout = %v, want 1s", auth, hc.Timeout)
			}
		}
	}
}

func TestRegister(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/auth/register" {
			http.NotFound(w, r)
			return
		}
		var reg domain.Registration
		json.NewDecoder(r.Body).Decode(&reg) //nolint:errcheck
		if reg.Email == "dup@x.io" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "User already exists"}) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "User registered"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)

	_, err := c.Register(context.Background(), domain.Registration{Name: "  ", Email: "a@x.io", Password: "pw"})
	if !IsValidation(err) {
		t.Fatalf("blank name error = %v, want validation error", err)
	}
	if got := Message(err); got != "All fields are required" {
		t.Errorf("Message = %q", got)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hits after validation failure = %d, want 0", n)
	}

	msg, err := c.Register(context.Background(), domain.Registration{Name: "Ann", Email: "ann@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if msg != "User registered" {
		t.Errorf("message = %q", msg)
	}

	_, err = c.Register(context.Background(), domain.Registration{Name: "Ann", Email: "dup@x.io", Password: "pw"})
	if got := MessageOr(err, "Registration failed"); got != "User already exists" {
		t.Errorf("MessageOr = %q, want %q", got, "User already exists")
	}
}

func TestUpdateProfileAndAddSkill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.Path {
		case "/api/profile":
			var u domain.ProfileUpdate
			json.NewDecoder(r.Body).Decode(&u) //nolint:errcheck
			json.NewEncoder(w).Encode(map[string]any{"user": domain.Profile{Name: u.Name, Email: u.Email}}) //nolint:errcheck
		case "/api/profile/skills":
			var s domain.Skill
			json.NewDecoder(r.Body).Decode(&s) //nolint:errcheck
			json.NewEncoder(w).Encode(map[string]any{"skills": []domain.Skill{{Skill: "Go", YearsOfExperience: 4}, s}}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	p, err := c.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "New", Email: "n@x.io"})
	if err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}
	if p.Name != "New" || p.Email != "n@x.io" {
		t.Errorf("profile = %+v", *p)
	}

	skills, err := c.AddSkill(context.Background(), domain.Skill{Skill: "Rust", YearsOfExperience: 1})
	if err != nil {
		t.Fatalf("AddSkill() error: %v", err)
	}
	if len(skills) != 2 || skills[1].Skill != "Rust" {
		t.Errorf("skills = %+v", skills)
	}

	if _, err := c.AddSkill(context.Background(), domain.Skill{Skill: " "}); !IsValidation(err) {
		t.Errorf("blank skill error = %v, want validation error", err)
	}
}

func TestUploadProfileImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile/image" || r.Method != http.MethodPut {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		f, hdr, err := r.FormFile("profileImage")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close() //nolint:errcheck
		data, _ := io.ReadAll(f)
		if string(data) != "PNGDATA" {
			t.Errorf("file body = %q", data)
		}
		json.NewEncoder(w).Encode(map[string]string{"profileImage": "/uploads/" + hdr.Filename}) //nolint:errcheck
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "me.png")
	if err := os.WriteFile(path, []byte("PNGDATA"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL, staticTokens("tok"))
	url, err := c.UploadProfileImageFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadProfileImageFile() error: %v", err)
	}
	if url != "/uploads/me.png" {
		t.Errorf("url = %q, want %q", url, "/uploads/me.png")
	}

	_, err = c.UploadProfileImageFile(context.Background(), "")
	if got := Message(err); got != "No file selected." {
		t.Errorf("empty path Message = %q", got)
	}
}

func TestUnauthorizedHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	// Without the hook a 401 is just an error.
	_, err := New(srv.URL, staticTokens("tok")).GetProfile(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("err = %v, want 401", err)
	}

	fired := 0
	c := New(srv.URL, staticTokens("tok"), WithUnauthorizedHook(func() { fired++ }))
	c.GetProfile(context.Background()) //nolint:errcheck
	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}

	// Unauthenticated endpoints never trigger it.
	c.ListUsers(context.Background()) //nolint:errcheck
	if fired != 1 {
		t.Errorf("hook fired on unauthenticated call")
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Message: "not found"}
	if got := err.Error(); got != "HTTP 404: not found" {
		t.Errorf("Error() = %q, want %q", got, "HTTP 404: not found")
	}
}
