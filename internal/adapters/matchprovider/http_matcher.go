package matchprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crmbridge/matchgate/internal/config"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/crmbridge/matchgate/internal/reporting"
)

const userAgent = "matchgate"

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpMatcherAPI struct {
	httpClient HttpClient
	baseURL    string
}

type customerPayload struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
}

type employeePayload struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Role       string   `json:"role,omitempty"`
	Department string   `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Bio        string   `json:"bio,omitempty"`
}

type matchBatchRequest struct {
	Customer  customerPayload   `json:"customer"`
	Employees []employeePayload `json:"employees"`
}

type matchBatchResponse struct {
	Matches []struct {
		EmployeeID string  `json:"employee_id"`
		Score      float64 `json:"score"`
		Confidence string  `json:"confidence,omitempty"`
	} `json:"matches"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func (m httpMatcherAPI) MatchBatch(ctx context.Context, customer domain.Customer, employees []domain.Employee) ([]Match, error) {
	logger := logging.FromContext(ctx)

	payload := matchBatchRequest{
		Customer: customerPayload{
			ID:          customer.ID,
			Name:        customer.Name,
			Industry:    customer.Industry,
			Description: customer.Description,
		},
		Employees: make([]employeePayload, 0, len(employees)),
	}
	for _, employee := range employees {
		payload.Employees = append(payload.Employees, employeePayload{
			ID:         employee.ID,
			Name:       employee.Name,
			Role:       employee.Role,
			Department: employee.Department,
			Skills:     employee.Skills,
			Bio:        employee.Bio,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		err := fmt.Errorf("failed to marshal match request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	url := m.baseURL + "/customer-employee-match"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send match request: %w", domain.ErrTemporarilyUnavailable, err)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read match response body: %w", domain.ErrTemporarilyUnavailable, err)
	}
	logger.InfoContext(ctx, "matcher request completed", "url", url, "status", resp.StatusCode, "pairs", len(employees), "duration", time.Since(start).String())

	matches, err := matchesFromResponse(resp.StatusCode, data)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches from matcher response: %w", err)
	}

	return matches, nil
}

func matchesFromResponse(statusCode int, data []byte) ([]Match, error) {
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: matcher returned status code %d", domain.ErrTemporarilyUnavailable, statusCode)
	}

	var response matchBatchResponse
	if err := json.Unmarshal(data, &response); err != nil {
		// Malformed payloads are demoted to transport failures
		return nil, fmt.Errorf("%w: failed to parse matcher response: %w", domain.ErrTemporarilyUnavailable, err)
	}

	matches := make([]Match, 0, len(response.Matches))
	for _, match := range response.Matches {
		confidence := domain.Confidence(match.Confidence)
		if confidence == "" {
			confidence = domain.ConfidenceFromScore(match.Score)
		}
		matches = append(matches, Match{
			EmployeeID: match.EmployeeID,
			Score:      match.Score,
			Confidence: confidence,
		})
	}

	return matches, nil
}

func (m httpMatcherAPI) CheckHealth(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("failed to create health request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("%w: failed to probe matcher: %w", domain.ErrTemporarilyUnavailable, err)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return HealthReport{}, fmt.Errorf("%w: failed to read health response: %w", domain.ErrTemporarilyUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return HealthReport{}, fmt.Errorf("%w: health probe returned status code %d", domain.ErrTemporarilyUnavailable, resp.StatusCode)
	}

	var response healthResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return HealthReport{}, fmt.Errorf("%w: failed to parse health response: %w", domain.ErrTemporarilyUnavailable, err)
	}

	return HealthReport{
		Healthy:     response.Status == "healthy",
		ModelLoaded: response.ModelLoaded,
	}, nil
}

func (m httpMatcherAPI) Preload(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/preload", nil)
	if err != nil {
		return fmt.Errorf("failed to create preload request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send preload request: %w", err)
	}
	resp.Body.Close()

	return nil
}

func NewHttpMatcherAPI(httpClient HttpClient, baseURL string) MatcherAPI {
	return httpMatcherAPI{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// NewMatcherAPIOrMock returns the real adapter when a matcher URL is
// configured, and a deterministic mock in development.
func NewMatcherAPIOrMock(conf config.Config, httpClient HttpClient) (MatcherAPI, error) {
	if conf.MatcherAPIURL() != "" {
		return NewHttpMatcherAPI(httpClient, conf.MatcherAPIURL()), nil
	}
	if conf.IsDevelopment() {
		return &mockedMatcherAPI{}, nil
	}
	return nil, fmt.Errorf("missing matcher API URL in non-development environment")
}

type mockedMatcherAPI struct{}

func (m *mockedMatcherAPI) MatchBatch(ctx context.Context, customer domain.Customer, employees []domain.Employee) ([]Match, error) {
	matches := make([]Match, 0, len(employees))
	for _, employee := range employees {
		similarity := domain.TextSimilarity(customer.MatchText(), employee.MatchText())
		matches = append(matches, Match{
			EmployeeID: employee.ID,
			Score:      similarity.Score,
			Confidence: similarity.Confidence,
		})
	}
	return matches, nil
}

func (m *mockedMatcherAPI) CheckHealth(ctx context.Context) (HealthReport, error) {
	return HealthReport{Healthy: true, ModelLoaded: true}, nil
}

func (m *mockedMatcherAPI) Preload(ctx context.Context) error {
	return nil
}
