package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"precios/catalog/internal/domain"
	"precios/catalog/internal/service"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// CatalogClient queries a running catalog server.
type CatalogClient interface {
	Categories(ctx context.Context) ([]string, error)
	Items(ctx context.Context, category string) ([]*domain.Record, error)
	Search(ctx context.Context, query string) ([]*domain.Record, error)
}

type catalogClient struct {
	httpClient *resty.Client
}

// envelope is the {ok, ...} body every API endpoint answers with.
type envelope struct {
	OK         bool             `json:"ok"`
	Error      string           `json:"error,omitempty"`
	Categories []string         `json:"categories,omitempty"`
	Items      []*domain.Record `json:"items,omitempty"`
}

func NewCatalogClient(baseURL string, timeout time.Duration) CatalogClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	return &catalogClient{
		httpClient: client,
	}
}

func (c *catalogClient) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/categories", nil)
	if err != nil {
		return nil, err
	}
	return orEmpty(body.Categories), nil
}

func (c *catalogClient) Items(ctx context.Context, category string) ([]*domain.Record, error) {
	body, err := c.get(ctx, "/api/items", map[string]string{"category": category})
	if err != nil {
		return nil, err
	}
	return orEmpty(body.Items), nil
}

func (c *catalogClient) Search(ctx context.Context, query string) ([]*domain.Record, error) {
	body, err := c.get(ctx, "/api/search", map[string]string{"q": query})
	if err != nil {
		return nil, err
	}
	return orEmpty(body.Items), nil
}

func (c *catalogClient) get(ctx context.Context, path string, params map[string]string) (*envelope, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	var body envelope
	if decodeErr := json.Unmarshal([]byte(resp.String()), &body); decodeErr != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", path, decodeErr)
	}

	if resp.IsError() || !body.OK {
		if body.Error == "Unknown category" {
			return nil, service.ErrUnknownCategory
		}
		log.Debugf("Catalog server rejected %s: %d %s", path, resp.StatusCode(), body.Error)
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), body.Error)
	}

	return &body, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return make([]T, 0)
	}
	return s
}
