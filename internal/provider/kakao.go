package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/ratelimit"
)

const (
	kakaoAddressPath = "/v2/local/search/address.json"
	kakaoKeywordPath = "/v2/local/search/keyword.json"
	kakaoMaxSize     = 15
)

type KakaoConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Limiter *ratelimit.Limiter
	// ThrottlePause is slept after a 429 before reporting no result.
	ThrottlePause time.Duration
}

// KakaoClient serves both geocoding and keyword search from the Kakao Local API.
type KakaoClient struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	limiter       *ratelimit.Limiter
	throttlePause time.Duration
	log           zerolog.Logger
}

func NewKakaoClient(cfg KakaoConfig, log zerolog.Logger) *KakaoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dapi.kakao.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.New(100 * time.Millisecond)
	}
	return &KakaoClient{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       cfg.Limiter,
		throttlePause: cfg.ThrottlePause,
		log:           log.With().Str("provider", "kakao").Logger(),
	}
}

type kakaoAddressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

type kakaoKeywordResponse struct {
	Documents []kakaoPlace `json:"documents"`
}

type kakaoPlace struct {
	PlaceName       string `json:"place_name"`
	Phone           string `json:"phone"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	CategoryName    string `json:"category_name"`
}

// Geocode returns the coordinates of the first matching document.
func (c *KakaoClient) Geocode(ctx context.Context, address string) (model.Coordinates, bool) {
	params := url.Values{}
	params.Set("query", address)

	var payload kakaoAddressResponse
	if !c.get(ctx, kakaoAddressPath, params, &payload) {
		return model.Coordinates{}, false
	}
	if len(payload.Documents) == 0 {
		c.log.Debug().Str("query", address).Msg("geocode: no documents")
		return model.Coordinates{}, false
	}

	doc := payload.Documents[0]
	lng, errX := strconv.ParseFloat(doc.X, 64)
	lat, errY := strconv.ParseFloat(doc.Y, 64)
	if errX != nil || errY != nil {
		c.log.Warn().Str("query", address).Str("x", doc.X).Str("y", doc.Y).Msg("geocode: malformed coordinates")
		return model.Coordinates{}, false
	}

	return model.Coordinates{Lat: lat, Lng: lng, AddressName: doc.AddressName}, true
}

// SearchKeyword runs a keyword search, geo-filtered when query.Near is set.
// Results keep the provider's order.
func (c *KakaoClient) SearchKeyword(ctx context.Context, query KeywordQuery) []model.POI {
	params := url.Values{}
	params.Set("query", query.Query)
	if query.Near != nil {
		params.Set("x", strconv.FormatFloat(query.Near.Lng, 'f', -1, 64))
		params.Set("y", strconv.FormatFloat(query.Near.Lat, 'f', -1, 64))
		if query.RadiusMeters > 0 {
			params.Set("radius", strconv.Itoa(query.RadiusMeters))
		}
	}
	if query.Size > 0 {
		size := query.Size
		if size > kakaoMaxSize {
			size = kakaoMaxSize
		}
		params.Set("size", strconv.Itoa(size))
	}

	var payload kakaoKeywordResponse
	if !c.get(ctx, kakaoKeywordPath, params, &payload) {
		return nil
	}

	pois := make([]model.POI, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		pois = append(pois, model.POI{
			Name:        strings.TrimSpace(doc.PlaceName),
			Phone:       strings.TrimSpace(doc.Phone),
			Address:     strings.TrimSpace(doc.AddressName),
			RoadAddress: strings.TrimSpace(doc.RoadAddressName),
			Category:    doc.CategoryName,
		})
	}
	return pois
}

// Verify performs one keyword search and reports rejected credentials.
func (c *KakaoClient) Verify(ctx context.Context) error {
	params := url.Values{}
	params.Set("query", "서울역 맛집")
	params.Set("size", "1")

	status, err := c.do(ctx, kakaoKeywordPath, params, nil)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: kakao status %d", ErrUnauthorized, status)
	case status != http.StatusOK:
		return fmt.Errorf("kakao verify: unexpected status code: %d", status)
	}
	return nil
}

// get performs the call and decodes a 200 response into out. Any failure is
// logged and reported as false.
func (c *KakaoClient) get(ctx context.Context, path string, params url.Values, out any) bool {
	status, err := c.do(ctx, path, params, out)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Str("query", params.Get("query")).Msg("request failed")
		return false
	}
	if status == http.StatusTooManyRequests {
		c.log.Warn().Str("path", path).Str("query", params.Get("query")).Msg("throttled by provider")
		pause(ctx, c.throttlePause)
		return false
	}
	if status != http.StatusOK {
		c.log.Warn().Int("status", status).Str("path", path).Str("query", params.Get("query")).Msg("unexpected status code")
		return false
	}
	return true
}

func (c *KakaoClient) do(ctx context.Context, path string, params url.Values, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
