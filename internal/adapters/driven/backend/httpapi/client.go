package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
	"github.com/campusquery/campusquery-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.BackendGateway = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout is generous because confirm triggers backend-side
	// indexing on first contact with a college.
	DefaultTimeout = 120 * time.Second
	// DefaultRequestsPerSecond throttles the client so rapid-fire
	// submissions cannot hammer the backend.
	DefaultRequestsPerSecond = 4
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend API base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond caps the outgoing request rate (default: 4).
	RequestsPerSecond float64
}

// Client is an HTTP implementation of driven.BackendGateway.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// resolveRequest is the /college/resolve request format.
type resolveRequest struct {
	CollegeName string `json:"college_name"`
	ForceSearch bool   `json:"force_search"`
}

// resolveResponse is the /college/resolve response format.
type resolveResponse struct {
	Candidates []candidatePayload `json:"candidates"`
}

// candidatePayload is one candidate on the wire.
type candidatePayload struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Confidence string `json:"confidence"`
}

// confirmRequest is the /college/confirm request format.
type confirmRequest struct {
	URL         string `json:"url"`
	CollegeName string `json:"college_name"`
}

// confirmResponse is the /college/confirm response format.
type confirmResponse struct {
	CollegeID  int64  `json:"college_id"`
	Status     string `json:"status"`
	PagesCount int    `json:"pages_count"`
	Message    string `json:"message"`
}

// chatRequest is the /chat request format.
type chatRequest struct {
	CollegeID int64  `json:"college_id"`
	Question  string `json:"question"`
}

// chatResponse is the /chat response format.
type chatResponse struct {
	Answer     string          `json:"answer"`
	SourcePage string          `json:"source_page"`
	SourceURL  string          `json:"source_url"`
	Sources    []sourcePayload `json:"sources"`
}

// sourcePayload is one supporting source on the wire.
type sourcePayload struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// collegeInfoResponse is the /college/{id} response format.
type collegeInfoResponse struct {
	ID             int64     `json:"id"`
	CollegeName    string    `json:"college_name"`
	OfficialDomain string    `json:"official_domain"`
	Scraped        bool      `json:"scraped"`
	PagesCount     int       `json:"pages_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// errorResponse is the backend's structured error format.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Resolve maps a college name to candidate official websites.
func (c *Client) Resolve(ctx context.Context, name string, forceSearch bool) ([]domain.Candidate, error) {
	var resp resolveResponse
	err := c.post(ctx, "/college/resolve", resolveRequest{CollegeName: name, ForceSearch: forceSearch}, &resp)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, len(resp.Candidates))
	for i, payload := range resp.Candidates {
		candidates[i] = domain.Candidate{
			Name:       payload.Name,
			URL:        payload.URL,
			Confidence: domain.ParseConfidence(payload.Confidence),
		}
	}
	return candidates, nil
}

// Confirm selects a candidate website and triggers backend indexing.
func (c *Client) Confirm(ctx context.Context, candidateURL, name string) (*driven.ConfirmResult, error) {
	var resp confirmResponse
	err := c.post(ctx, "/college/confirm", confirmRequest{URL: candidateURL, CollegeName: name}, &resp)
	if err != nil {
		return nil, err
	}

	return &driven.ConfirmResult{
		CollegeID:  strconv.FormatInt(resp.CollegeID, 10),
		Status:     resp.Status,
		PagesCount: resp.PagesCount,
		Message:    resp.Message,
	}, nil
}

// Ask answers a question about a confirmed college.
func (c *Client) Ask(ctx context.Context, collegeID, question string) (*driven.Answer, error) {
	id, err := strconv.ParseInt(collegeID, 10, 64)
	if err != nil {
		return nil, &driven.GatewayError{Reason: fmt.Sprintf("invalid college id %q", collegeID), Err: err}
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat", chatRequest{CollegeID: id, Question: question}, &resp); err != nil {
		return nil, err
	}

	answer := &driven.Answer{
		Text:       resp.Answer,
		SourcePage: resp.SourcePage,
		SourceURL:  resp.SourceURL,
	}
	for _, src := range resp.Sources {
		answer.Sources = append(answer.Sources, domain.SourceRef{Label: src.Type, Locator: src.URL})
	}
	return answer, nil
}

// FetchCollege returns the backend's descriptor for a college.
func (c *Client) FetchCollege(ctx context.Context, collegeID string) (*domain.CollegeInfo, error) {
	id, err := strconv.ParseInt(collegeID, 10, 64)
	if err != nil {
		return nil, &driven.GatewayError{Reason: fmt.Sprintf("invalid college id %q", collegeID), Err: err}
	}

	var resp collegeInfoResponse
	if err := c.get(ctx, "/college/"+url.PathEscape(strconv.FormatInt(id, 10)), &resp); err != nil {
		return nil, err
	}

	return &domain.CollegeInfo{
		ID:             strconv.FormatInt(resp.ID, 10),
		Name:           resp.CollegeName,
		OfficialDomain: resp.OfficialDomain,
		Scraped:        resp.Scraped,
		PagesCount:     resp.PagesCount,
		CreatedAt:      resp.CreatedAt,
	}, nil
}

// post issues a JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return &driven.GatewayError{Reason: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return &driven.GatewayError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// get issues a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return &driven.GatewayError{Reason: "failed to create request", Err: err}
	}
	return c.do(req, out)
}

// do executes the request under the rate limiter and normalises failures.
func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return &driven.GatewayError{Reason: "request cancelled", Transport: true, Err: err}
	}

	logger.Debug("Backend %s %s", req.Method, req.URL.Path)

	resp, err := c.client.Do(req)
	if err != nil {
		return &driven.GatewayError{
			Reason:    fmt.Sprintf("backend unreachable: %v", err),
			Transport: true,
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFrom(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &driven.GatewayError{Reason: "failed to decode backend response", Err: err}
	}
	return nil
}

// errorFrom builds a GatewayError from a non-200 response, preferring the
// backend's structured detail message when one is present.
func (c *Client) errorFrom(resp *http.Response) error {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Detail != "" {
		logger.Debug("Backend error (status %d): %s", resp.StatusCode, payload.Detail)
		return &driven.GatewayError{Reason: payload.Detail}
	}
	return &driven.GatewayError{Reason: fmt.Sprintf("backend error (status %d)", resp.StatusCode)}
}
