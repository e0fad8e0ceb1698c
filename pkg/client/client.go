package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/naveenspark/saasdash/pkg/domain"
)

// DefaultBaseURL is the production API.
const DefaultBaseURL = "https://saasbackend-380j.onrender.com"

// unexpectedResponse is the message for a success status whose body is not the expected JSON.
const unexpectedResponse = "unexpected response from server"

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 1 << 20

// TokenSource yields the current bearer token. The session store implements it.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the SaaS dashboard API client.
type Client struct {
	baseURL        string
	tokens         TokenSource
	httpClient     *http.Client
	timeout        time.Duration
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUnauthorizedHook registers fn to run when an authenticated call is
// answered with 401. It is not installed by default.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a new API client. tokens may be nil for a client that only
// issues unauthenticated calls.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// --- Auth ---

// Login exchanges credentials for a bearer token. Storing the token is the caller's job.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/login", false, creds, &resp); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("client.Login: %w", errors.New("response carried no token"))
	}
	return resp.Token, nil
}

// ValidateRegistration checks that every registration field is filled in.
func ValidateRegistration(r domain.Registration) error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return &ValidationError{Message: "All fields are required"}
	}
	return nil
}

// Register creates an account and returns the server's confirmation message.
// Missing fields fail validation without contacting the server.
func (c *Client) Register(ctx context.Context, r domain.Registration) (string, error) {
	if err := ValidateRegistration(r); err != nil {
		return "", fmt.Errorf("client.Register: %w", err)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/register", false, r, &resp); err != nil {
		return "", fmt.Errorf("client.Register: %w", err)
	}
	return resp.Message, nil
}

// Logout invalidates the current token server-side. Clearing the local
// session is the caller's job.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/api/logout", true, struct{}{}, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// --- Users ---

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/users", false, &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// --- Dashboard ---

// DashboardSummary returns the headline counters.
func (c *Client) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	var s domain.DashboardSummary
	if err := c.get(ctx, "/api/dashboard/data", true, &s); err != nil {
		return nil, fmt.Errorf("client.DashboardSummary: %w", err)
	}
	return &s, nil
}

// RevenueHistory returns revenue records in server order.
func (c *Client) RevenueHistory(ctx context.Context) ([]domain.RevenueRecord, error) {
	var records []domain.RevenueRecord
	if err := c.get(ctx, "/api/dashboard/revenue-history", true, &records); err != nil {
		return nil, fmt.Errorf("client.RevenueHistory: %w", err)
	}
	return records, nil
}

// SessionHistory returns session records in server order.
func (c *Client) SessionHistory(ctx context.Context) ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	if err := c.get(ctx, "/api/dashboard/session-history", true, &records); err != nil {
		return nil, fmt.Errorf("client.SessionHistory: %w", err)
	}
	return records, nil
}

// --- Profile ---

// GetProfile returns the authenticated account's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/api/profile", true, &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdateProfile saves name, email and (optionally) password.
func (c *Client) UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (*domain.Profile, error) {
	var resp struct {
		User domain.Profile `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPut, "/api/profile", true, u, &resp); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &resp.User, nil
}

// AddSkill appends a skill and returns the full updated skill list.
func (c *Client) AddSkill(ctx context.Context, s domain.Skill) ([]domain.Skill, error) {
	if strings.TrimSpace(s.Skill) == "" {
		return nil, fmt.Errorf("client.AddSkill: %w", &ValidationError{Message: "Skill is required"})
	}
	if s.YearsOfExperience < 0 {
		return nil, fmt.Errorf("client.AddSkill: %w", &ValidationError{Message: "Years of experience cannot be negative"})
	}
	var resp struct {
		Skills []domain.Skill `json:"skills"`
	}
	if err := c.sendJSON(ctx, http.MethodPut, "/api/profile/skills", true, s, &resp); err != nil {
		return nil, fmt.Errorf("client.AddSkill: %w", err)
	}
	return resp.Skills, nil
}

// UploadProfileImage sends image as the multipart field "profileImage" and
// returns the new image URL.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profileImage", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("client.UploadProfileImage: create part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("client.UploadProfileImage: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("client.UploadProfileImage: close form: %w", err)
	}

	var resp struct {
		ProfileImage string `json:"profileImage"`
	}
	if err := c.doRequest(ctx, http.MethodPut, "/api/profile/image", true, &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", fmt.Errorf("client.UploadProfileImage: %w", err)
	}
	return resp.ProfileImage, nil
}

// UploadProfileImageFile opens path and uploads it.
func (c *Client) UploadProfileImageFile(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("client.UploadProfileImage: %w", &ValidationError{Message: "No file selected."})
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("client.UploadProfileImage: %w", &ValidationError{Message: "Cannot open " + filepath.Base(path)})
	}
	defer f.Close() //nolint:errcheck
	return c.UploadProfileImage(ctx, path, f)
}

// --- transport ---

func (c *Client) get(ctx context.Context, path string, auth bool, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, auth, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, auth bool, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.doRequest(ctx, method, path, auth, bytes.NewReader(data), "application/json", out)
}

// httpFor returns the HTTP client for one call. Authenticated calls go through
// an oauth2 transport carrying the token captured at call time.
func (c *Client) httpFor(auth bool) (*http.Client, error) {
	if !auth {
		if c.timeout == 0 {
			return c.httpClient, nil
		}
		return &http.Client{
			Transport:     c.httpClient.Transport,
			CheckRedirect: c.httpClient.CheckRedirect,
			Jar:           c.httpClient.Jar,
			Timeout:       c.timeout,
		}, nil
	}
	if c.tokens == nil {
		return nil, ErrNotAuthenticated
	}
	tok, ok := c.tokens.Token()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return &http.Client{
		Timeout:       c.effectiveTimeout(),
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}),
			Base:   c.httpClient.Transport,
		},
	}, nil
}

// effectiveTimeout prefers the WithTimeout value over the wrapped client's own.
func (c *Client) effectiveTimeout() time.Duration {
	if c.timeout != 0 {
		return c.timeout
	}
	return c.httpClient.Timeout
}

func (c *Client) doRequest(ctx context.Context, method, path string, auth bool, body io.Reader, contentType string, out any) error {
	hc, err := c.httpFor(auth)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := hc.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if auth && resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return readHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Printf("client: %s %s: decode response: %v", method, path, err)
			return &HTTPError{StatusCode: resp.StatusCode, Message: unexpectedResponse}
		}
	}
	return nil
}

// readHTTPError builds an HTTPError, preferring the body's "error" then
// "message" field, then a short plain-text body, then the status text.
func readHTTPError(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, fromBody: true}
		}
		if apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message, fromBody: true}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if text := strings.TrimSpace(string(respBody)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return &HTTPError{StatusCode: resp.StatusCode, Message: text, fromBody: true}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
