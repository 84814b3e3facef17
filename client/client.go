package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultUserAgent = "funnelbuilder/1.0"
)

// Client talks to a PostgREST endpoint such as the one Supabase exposes.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
}

func New(baseURL, apiKey string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:    &httpClient,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return http.DefaultTransport.RoundTrip(req)
}

// StatusError is returned for non 2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

type Query struct {
	client  *Client
	table   string
	columns string
	filters url.Values
	orders  []string
	limit   int
}

func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	if q.filters == nil {
		q.filters = url.Values{}
	}
	q.filters.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) endpoint() string {
	params := url.Values{}
	for k, vs := range q.filters {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}

	endpoint := q.client.baseURL + "/rest/v1/" + q.table
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

// Execute runs a select and decodes the row array into result.
func (q *Query) Execute(ctx context.Context, result any) error {
	return q.client.do(ctx, http.MethodGet, q.endpoint(), nil, result)
}

// Insert posts rows and decodes the stored representation into result.
func (q *Query) Insert(ctx context.Context, rows any, result any) error {
	return q.client.do(ctx, http.MethodPost, q.endpoint(), rows, result)
}

// Update patches the rows matching the filters.
func (q *Query) Update(ctx context.Context, values any, result any) error {
	return q.client.do(ctx, http.MethodPatch, q.endpoint(), values, result)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    gjson.GetBytes(raw, "message").String(),
		}
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
