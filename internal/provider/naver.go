package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/ratelimit"
)

const (
	naverLocalPath      = "/v1/search/local.json"
	naverDefaultDisplay = 10
)

var htmlTag = regexp.MustCompile(`<.*?>`)

type NaverConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
	Limiter      *ratelimit.Limiter
	// ThrottlePause is slept after a 429 before reporting no result.
	ThrottlePause time.Duration
}

// NaverClient is a keyword-only searcher over the Naver local search API.
// It has no geo filter: KeywordQuery.Near and RadiusMeters are ignored.
type NaverClient struct {
	clientID      string
	clientSecret  string
	baseURL       string
	httpClient    *http.Client
	limiter       *ratelimit.Limiter
	throttlePause time.Duration
	log           zerolog.Logger
}

func NewNaverClient(cfg NaverConfig, log zerolog.Logger) *NaverClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openapi.naver.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.New(150 * time.Millisecond)
	}
	return &NaverClient{
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       cfg.Limiter,
		throttlePause: cfg.ThrottlePause,
		log:           log.With().Str("provider", "naver").Logger(),
	}
}

type naverLocalResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Telephone   string `json:"telephone"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		Category    string `json:"category"`
	} `json:"items"`
}

func (c *NaverClient) SearchKeyword(ctx context.Context, query KeywordQuery) []model.POI {
	display := query.Size
	if display <= 0 {
		display = naverDefaultDisplay
	}

	params := url.Values{}
	params.Set("query", query.Query)
	params.Set("display", strconv.Itoa(display))
	params.Set("start", "1")
	params.Set("sort", "comment")

	payload, ok := c.search(ctx, params)
	if !ok {
		return nil
	}

	pois := make([]model.POI, 0, len(payload.Items))
	for _, item := range payload.Items {
		pois = append(pois, model.POI{
			Name:        cleanTitle(item.Title),
			Phone:       strings.TrimSpace(item.Telephone),
			Address:     strings.TrimSpace(item.Address),
			RoadAddress: strings.TrimSpace(item.RoadAddress),
			Category:    item.Category,
		})
	}
	return pois
}

func (c *NaverClient) search(ctx context.Context, params url.Values) (*naverLocalResponse, bool) {
	logger := c.log.With().Str("query", params.Get("query")).Logger()

	if err := c.limiter.Wait(ctx); err != nil {
		logger.Warn().Err(err).Msg("request skipped")
		return nil, false
	}

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, naverLocalPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create request")
		return nil, false
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("request failed")
		return nil, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		logger.Warn().Msg("throttled by provider")
		pause(ctx, c.throttlePause)
		return nil, false
	default:
		logger.Warn().Int("status", resp.StatusCode).Msg("unexpected status code")
		return nil, false
	}

	var payload naverLocalResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode response")
		return nil, false
	}
	return &payload, true
}

// Verify performs one keyword search and reports rejected credentials.
func (c *NaverClient) Verify(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("query", "강남역 맛집")
	params.Set("display", "1")

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, naverLocalPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: naver status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("naver verify: unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// pause waits d or until ctx is done. Both clients call it after a 429.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// cleanTitle unescapes entities first, then drops any tag, so escaped markup
// such as "&lt;b&gt;" is removed too.
func cleanTitle(title string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(html.UnescapeString(strings.TrimSpace(title)), ""))
}
