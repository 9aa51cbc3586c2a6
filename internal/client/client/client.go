package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

const apiPrefix = "/api/v1"

// Registration is the body of POST /auth/register.
type Registration struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

// Export describes an uploaded ledger export.
type Export struct {
	Key              string    `json:"key"`
	Format           string    `json:"format"`
	TransactionCount int       `json:"transaction_count"`
	URL              string    `json:"url"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// APIClient is a thin JSON client for the GophLedger HTTP API.
type APIClient struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewAPIClient returns a client for the server at baseURL
// (e.g. "http://127.0.0.1:8000").
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.token = token
	return &cp
}

// HTTPClient exposes the underlying transport, e.g. for downloading
// presigned export links.
func (c *APIClient) HTTPClient() *http.Client {
	return c.http
}

func (c *APIClient) Register(ctx context.Context, r Registration) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for an access token.
func (c *APIClient) Login(ctx context.Context, userName string, password []byte) (string, error) {
	body := map[string]string{"username": userName, "password": string(password)}

	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("server returned an empty token")
	}
	return tr.AccessToken, nil
}

func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *APIClient) PeriodSummary(ctx context.Context, period string) (*analytics.Summary, error) {
	var s analytics.Summary
	if err := c.do(ctx, http.MethodGet, "/transactions/summary/period", periodQuery(period), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) CategoryBreakdown(ctx context.Context, period string) (*analytics.Breakdown, error) {
	var b analytics.Breakdown
	if err := c.do(ctx, http.MethodGet, "/analytics/transactions/category-breakdown", periodQuery(period), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *APIClient) BudgetProgress(ctx context.Context) (*analytics.BudgetReport, error) {
	var r analytics.BudgetReport
	if err := c.do(ctx, http.MethodGet, "/analytics/budgets/progress", nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *APIClient) ExportTransactions(ctx context.Context, format string) (*Export, error) {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	var e Export
	if err := c.do(ctx, http.MethodPost, "/exports/transactions", q, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func periodQuery(period string) url.Values {
	if period == "" {
		return nil
	}
	return url.Values{"period": {period}}
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error answer into *APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er); err == nil {
		apiErr.Detail = er.Detail
	}
	return apiErr
}
