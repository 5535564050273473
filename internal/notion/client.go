package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/syllaboss/internal/blocks"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	// DefaultMaxBlocks is the API's limit on children in one create-page call.
	DefaultMaxBlocks = 100
)

// Client talks to the Notion REST API. Integration tokens are supplied per
// call so one client can serve many users.
type Client struct {
	baseURL    string
	version    string
	maxBlocks  int
	httpClient *http.Client
}

func NewClient(baseURL, version string, maxBlocks int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if version == "" {
		version = DefaultVersion
	}
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlocks
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		version:   version,
		maxBlocks: maxBlocks,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Error is a non-2xx response from the Notion API.
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("notion %s: status %d: %s", e.Op, e.StatusCode, truncate(e.Body, 300))
}

// Result describes a created page.
type Result struct {
	PageID  string `json:"page_id"`
	URL     string `json:"url"`
	Blocks  int    `json:"blocks"`
	Dropped int    `json:"dropped"`
}

type searchRequest struct {
	Filter   searchFilter `json:"filter"`
	PageSize int          `json:"page_size,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Properties pageProperties `json:"properties"`
	Children   []Block        `json:"children"`
}

type parent struct {
	Type      string `json:"type"`
	PageID    string `json:"page_id,omitempty"`
	Workspace bool   `json:"workspace,omitempty"`
}

type pageProperties struct {
	Title titleProperty `json:"title"`
}

type titleProperty struct {
	Title []RichText `json:"title"`
}

type createPageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Publish creates a page titled title containing bs. The parent is the first
// page visible to the integration, or the workspace root when there is none.
// Blocks beyond the per-call limit are dropped and reported in Result.Dropped.
func (c *Client) Publish(ctx context.Context, token, title string, bs []blocks.Block) (*Result, error) {
	parentID, err := c.findParent(ctx, token)
	if err != nil {
		return nil, err
	}

	kept, dropped := blocks.Truncate(bs, c.maxBlocks)
	req := createPageRequest{
		Parent: parent{Type: "workspace", Workspace: true},
		Properties: pageProperties{
			Title: titleProperty{Title: richText(title)},
		},
		Children: Children(kept),
	}
	if parentID != "" {
		req.Parent = parent{Type: "page_id", PageID: parentID}
	}

	var resp createPageResponse
	if err := c.do(ctx, token, "create page", "/v1/pages", req, &resp); err != nil {
		return nil, err
	}
	return &Result{
		PageID:  resp.ID,
		URL:     resp.URL,
		Blocks:  len(kept),
		Dropped: dropped,
	}, nil
}

func (c *Client) findParent(ctx context.Context, token string) (string, error) {
	req := searchRequest{
		Filter:   searchFilter{Property: "object", Value: "page"},
		PageSize: 1,
	}
	var resp searchResponse
	if err := c.do(ctx, token, "search", "/v1/search", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}

func (c *Client) do(ctx context.Context, token, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("notion %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
