package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"kbchat/pkg/config"

	"go.uber.org/zap"
)

// WikiService queries the Wikipedia REST and action APIs. It is the
// only network-bound collaborator of the retrieval engine; every call
// is bounded by the configured per-attempt timeout.
type WikiService struct {
	httpClient *http.Client
	config     *config.WikiConfig
	logger     *zap.Logger
}

func NewWikiService(cfg *config.WikiConfig, logger *zap.Logger) *WikiService {
	return &WikiService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger,
	}
}

// GetSummary fetches the page summary for a title.
// Endpoint: GET https://{lang}.wikipedia.org/api/rest_v1/page/summary/{title}
// A missing page (404) is "no result", not an error.
func (s *WikiService) GetSummary(ctx context.Context, title, lang string) (string, error) {
	endpoint := fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1/page/summary/%s",
		lang, url.PathEscape(strings.ReplaceAll(title, " ", "_")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("Summary lookup returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("title", title),
			zap.String("lang", lang),
		)
		return "", nil
	}

	var summaryResp struct {
		Type    string `json:"type"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summaryResp); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}

	// Disambiguation pages carry no usable summary.
	if summaryResp.Type == "disambiguation" {
		return "", nil
	}

	return strings.TrimSpace(summaryResp.Extract), nil
}

// SearchTitle resolves a free-text query to the best-matching page
// title via the action API, or "" when nothing matches.
func (s *WikiService) SearchTitle(ctx context.Context, query, lang string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", "1")
	params.Set("format", "json")
	params.Set("utf8", "1")

	endpoint := fmt.Sprintf("https://%s.wikipedia.org/w/api.php?%s", lang, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("Title search returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query),
			zap.String("lang", lang),
		)
		return "", nil
	}

	var searchResp struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(searchResp.Query.Search) == 0 {
		return "", nil
	}

	return searchResp.Query.Search[0].Title, nil
}
