package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// QdrantStore talks to Qdrant over its REST API. Cosine distance is assumed
// throughout.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	size       int
	client     *http.Client
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Size       int
	Timeout    time.Duration
}

func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		size:       cfg.Size,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	var list struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := s.getJSON(ctx, s.url+"/collections", &list); err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	for _, c := range list.Result.Collections {
		if c.Name == s.collection {
			return s.checkDimensions(ctx)
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.size,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	slog.Info("created collection", "collection", s.collection, "size", s.size)
	return nil
}

// checkDimensions guards against pointing the service at a collection
// created for a different embedding model.
func (s *QdrantStore) checkDimensions(ctx context.Context) error {
	var info struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), &info); err != nil {
		return fmt.Errorf("get collection %s: %w", s.collection, err)
	}
	if got := info.Result.Config.Params.Vectors.Size; got != 0 && got != s.size {
		return fmt.Errorf("collection %s has vector size %d, expected %d", s.collection, got, s.size)
	}
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]map[string]any, len(records))
	for i, r := range records {
		points[i] = map[string]any{
			"id":      r.ID,
			"vector":  r.Vector,
			"payload": r.Payload,
		}
	}
	body := map[string]any{"points": points}
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body); err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 4
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return normalizeSearchResult(resp.Result)
}

// normalizeSearchResult converts the two response shapes Qdrant has used for
// search — a bare hit list and an object wrapping a "points" list — into one
// canonical form. All shape-sniffing lives here.
func normalizeSearchResult(raw json.RawMessage) ([]SearchResult, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var hits []SearchResult
	if err := json.Unmarshal(raw, &hits); err == nil {
		return hits, nil
	}

	var wrapped struct {
		Points []SearchResult `json:"points"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Points, nil
	}

	return nil, fmt.Errorf("unrecognized search result shape: %s", truncateRaw(raw))
}

func truncateRaw(raw json.RawMessage) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}

func (s *QdrantStore) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *QdrantStore) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, nil)
}

func (s *QdrantStore) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *QdrantStore) do(req *http.Request, out any) error {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
