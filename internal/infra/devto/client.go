package devto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/httpclient"
	"github.com/rvodden/rvodden.github.io/internal/ports"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

const (
	defaultPerPage  = 1000
	maxPages        = 100
	maxErrorBodyLen = 512
)

// Client is a dev.to API client authenticated with an API key.
type Client struct {
	baseURL string
	token   string
	exec    *httpclient.Executor
	perPage int
	log     *slog.Logger
}

type Option func(*Client)

// WithPerPage sets the page size for listing articles.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL, token string, exec *httpclient.Executor, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = domain.DefaultDevToBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		exec:    exec,
		perPage: defaultPerPage,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.ArticleClient = (*Client)(nil)

// ListArticles returns every article of the authenticated user, published or not.
func (c *Client) ListArticles(ctx context.Context) ([]domain.Article, error) {
	if err := c.requireToken("devto.list"); err != nil {
		return nil, err
	}

	var all []domain.Article
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.perPage))
		u := c.baseURL + "/articles/me/all?" + q.Encode()

		resp, err := c.exec.Do(ctx, httpclient.Request{
			Method:  http.MethodGet,
			URL:     u,
			Headers: c.headers(),
		})
		if err != nil {
			return nil, transportError("devto.list", u, err)
		}
		if err := checkStatus("devto.list", u, resp); err != nil {
			return nil, err
		}

		var batch []domain.Article
		if err := json.Unmarshal(resp.BodyBytes, &batch); err != nil {
			return nil, &domain.OpError{
				Op:   "devto.list.decode",
				Kind: domain.KindRemote,
				Path: u,
				Err:  err,
			}
		}

		c.log.Debug("devto.list.page", "page", page, "count", len(batch))
		all = append(all, batch...)
		if len(batch) < c.perPage {
			break
		}
	}
	return all, nil
}

// Publish creates a new article from the document.
func (c *Client) Publish(ctx context.Context, doc domain.Document) (domain.PublishResult, error) {
	return c.send(ctx, "devto.publish", http.MethodPost, c.baseURL+"/articles", doc)
}

// Update replaces the body of an existing article.
func (c *Client) Update(ctx context.Context, id int, doc domain.Document) (domain.PublishResult, error) {
	res, err := c.send(ctx, "devto.update", http.MethodPut, fmt.Sprintf("%s/articles/%d", c.baseURL, id), doc)
	if err == nil && res.ID == 0 {
		res.ID = id
	}
	return res, err
}

func (c *Client) send(ctx context.Context, op, method, u string, doc domain.Document) (domain.PublishResult, error) {
	if err := c.requireToken(op); err != nil {
		return domain.PublishResult{}, err
	}

	body, err := convert.Render(doc)
	if err != nil {
		return domain.PublishResult{}, err
	}

	resp, err := c.exec.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     u,
		Headers: c.headers(),
		JSON: map[string]any{
			"article": map[string]any{
				"body_markdown": body,
			},
		},
	})
	if err != nil {
		return domain.PublishResult{}, transportError(op, u, err)
	}
	if err := checkStatus(op, u, resp); err != nil {
		return domain.PublishResult{}, err
	}

	res := extractResult(resp.BodyBytes)
	c.log.Info(op, "id", res.ID, "url", res.URL, "attempts", resp.Attempts)
	return res, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"api_key": c.token}
}

func (c *Client) requireToken(op string) error {
	if strings.TrimSpace(c.token) != "" {
		return nil
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindMissingVar,
		Err:  fmt.Errorf("DEV_TO_API_TOKEN is not set: %w", domain.ErrMissingVar),
	}
}

// extractResult pulls the article id and url out of a create/update response.
// Missing fields are left zero; the API has already accepted the write.
func extractResult(body []byte) domain.PublishResult {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.PublishResult{}
	}

	var out domain.PublishResult
	if v, err := jsonpath.Get("$.id", doc); err == nil {
		if f, ok := v.(float64); ok {
			out.ID = int(f)
		}
	}
	if v, err := jsonpath.Get("$.url", doc); err == nil {
		if s, ok := v.(string); ok {
			out.URL = s
		}
	}
	return out
}

func checkStatus(op, u string, resp httpclient.ResponseData) error {
	if resp.OK() {
		return nil
	}
	body := strings.TrimSpace(string(resp.BodyBytes))
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "..."
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindRemote,
		Path: u,
		Err:  &domain.RemoteError{Status: resp.Status, Body: body},
	}
}

func transportError(op, u string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return err
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: u,
		Err:  err,
	}
}
