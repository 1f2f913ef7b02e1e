package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/report"
)

// HTTPClient implements CommClient using the commtrack HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Companies ---

func (c *HTTPClient) CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*model.Company, error) {
	var company model.Company
	if err := c.doJSON(ctx, http.MethodPost, "/v1/companies", req, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *HTTPClient) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	if err := c.doJSON(ctx, http.MethodGet, "/v1/companies/"+url.PathEscape(id), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *HTTPClient) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	var resp struct {
		Companies []*model.Company `json:"companies"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/companies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

func (c *HTTPClient) UpdateCompany(ctx context.Context, id string, req *UpdateCompanyRequest) (*model.Company, error) {
	var company model.Company
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/companies/"+url.PathEscape(id), req, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *HTTPClient) SetCompanyHighlight(ctx context.Context, id string, disabled bool) (*model.Company, error) {
	body := map[string]bool{"disabled": disabled}
	var company model.Company
	if err := c.doJSON(ctx, http.MethodPost, "/v1/companies/"+url.PathEscape(id)+"/highlight", body, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *HTTPClient) DeleteCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/companies/"+url.PathEscape(id), nil, nil)
}

// --- Method catalog ---

func (c *HTTPClient) CreateMethod(ctx context.Context, req *CreateMethodRequest) (*model.Method, error) {
	var method model.Method
	if err := c.doJSON(ctx, http.MethodPost, "/v1/methods", req, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

func (c *HTTPClient) ListMethods(ctx context.Context) ([]*model.Method, error) {
	var resp struct {
		Methods []*model.Method `json:"methods"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/methods", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Methods, nil
}

func (c *HTTPClient) DeleteMethod(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/methods/"+url.PathEscape(id), nil, nil)
}

// --- Events ---

func (c *HTTPClient) CreateEvent(ctx context.Context, req *CreateEventRequest) (*model.CommEvent, error) {
	var event model.CommEvent
	if err := c.doJSON(ctx, http.MethodPost, "/v1/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, id string) (*model.CommEvent, error) {
	var event model.CommEvent
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	q := url.Values{}
	if req.CompanyID != "" {
		q.Set("company_id", req.CompanyID)
	}
	if len(req.Method) > 0 {
		q.Set("method", strings.Join(req.Method, ","))
	}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.From != nil {
		q.Set("from", req.From.Format(time.RFC3339))
	}
	if req.To != nil {
		q.Set("to", req.To.Format(time.RFC3339))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListEventsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*model.CommEvent, error) {
	var event model.CommEvent
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/events/"+url.PathEscape(id), req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/events/"+url.PathEscape(id), nil, nil)
}

// --- Dashboard and reports ---

func (c *HTTPClient) Dashboard(ctx context.Context) ([]*model.DashboardRow, error) {
	var resp struct {
		Companies []*model.DashboardRow `json:"companies"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

func (c *HTTPClient) CompanyDashboard(ctx context.Context, id string) (*model.DashboardRow, error) {
	var row model.DashboardRow
	if err := c.doJSON(ctx, http.MethodGet, "/v1/companies/"+url.PathEscape(id)+"/dashboard", nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func rangeQuery(from, to *time.Time) string {
	q := url.Values{}
	if from != nil {
		q.Set("from", from.Format(time.RFC3339))
	}
	if to != nil {
		q.Set("to", to.Format(time.RFC3339))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *HTTPClient) ReportFrequency(ctx context.Context, from, to *time.Time) ([]report.MethodCount, error) {
	var resp struct {
		Methods []report.MethodCount `json:"methods"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/reports/frequency"+rangeQuery(from, to), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Methods, nil
}

func (c *HTTPClient) ReportEffectiveness(ctx context.Context, from, to *time.Time) ([]report.Effectiveness, error) {
	var resp struct {
		Methods []report.Effectiveness `json:"methods"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/reports/effectiveness"+rangeQuery(from, to), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Methods, nil
}

func (c *HTTPClient) ReportTrends(ctx context.Context, from, to *time.Time) ([]report.TrendPoint, error) {
	var resp struct {
		Points []report.TrendPoint `json:"points"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/reports/trends"+rangeQuery(from, to), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Points, nil
}

func (c *HTTPClient) CalendarICS(ctx context.Context, companyID string, from, to *time.Time) (string, error) {
	q := url.Values{}
	if companyID != "" {
		q.Set("company_id", companyID)
	}
	if from != nil {
		q.Set("from", from.Format(time.RFC3339))
	}
	if to != nil {
		q.Set("to", to.Format(time.RFC3339))
	}
	path := "/v1/calendar.ics"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return string(body), nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
