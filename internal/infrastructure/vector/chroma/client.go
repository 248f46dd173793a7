package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

// Client talks to a Chroma server over its REST API. The collection is
// resolved once with get_or_create and the handle is cached; repeated
// calls are idempotent.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu     sync.Mutex
	collectionID string
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) ensureCollection(ctx context.Context) (string, error) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	if c.collectionID != "" {
		return c.collectionID, nil
	}

	reqBody := map[string]any{
		"name":          c.collection,
		"metadata":      map[string]any{"description": "Customer Service Knowledge Base"},
		"get_or_create": true,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/v1/collections", reqBody, &resp, "ensure collection"); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma ensure collection: empty collection id")
	}
	c.collectionID = resp.ID
	return c.collectionID, nil
}

func (c *Client) Add(ctx context.Context, ids []string, documents []string, metadatas []domain.CaseMetadata) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) != len(documents) || len(ids) != len(metadatas) {
		return fmt.Errorf("ids/documents/metadatas mismatch: %d/%d/%d", len(ids), len(documents), len(metadatas))
	}

	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return err
	}

	reqBody := map[string]any{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}
	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	return c.postJSON(ctx, path, reqBody, &json.RawMessage{}, "add")
}

func (c *Client) GetAll(ctx context.Context) ([]domain.StoredCase, error) {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	var resp struct {
		IDs       []string              `json:"ids"`
		Metadatas []domain.CaseMetadata `json:"metadatas"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/get", collectionID)
	if err := c.postJSON(ctx, path, map[string]any{}, &resp, "get"); err != nil {
		return nil, err
	}

	out := make([]domain.StoredCase, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		stored := domain.StoredCase{ID: id}
		if i < len(resp.Metadatas) {
			stored.Metadata = resp.Metadatas[i]
		}
		out = append(out, stored)
	}
	return out, nil
}

func (c *Client) Query(ctx context.Context, text string, k int) ([]domain.CaseMatch, error) {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"query_texts": []string{text},
		"n_results":   k,
		"include":     []string{"documents", "metadatas"},
	}

	var resp struct {
		Documents [][]string              `json:"documents"`
		Metadatas [][]domain.CaseMetadata `json:"metadatas"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := c.postJSON(ctx, path, reqBody, &resp, "query"); err != nil {
		return nil, err
	}
	if len(resp.Documents) == 0 {
		return nil, nil
	}

	docs := resp.Documents[0]
	out := make([]domain.CaseMatch, 0, len(docs))
	for i, doc := range docs {
		match := domain.CaseMatch{Content: doc}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			match.Metadata = resp.Metadatas[0][i]
		}
		out = append(out, match)
	}
	return out, nil
}

func (c *Client) Count(ctx context.Context) (int, error) {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s/count", c.baseURL, collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create count request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("chroma count request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return 0, formatChromaHTTPError("count", resp)
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return count, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return formatChromaHTTPError(operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func formatChromaHTTPError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("chroma %s status: %s", operation, resp.Status)
	}
	return fmt.Errorf("chroma %s status: %s: %s", operation, resp.Status, msg)
}
