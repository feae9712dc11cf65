package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/ratelimit"
)

type recordedRequest struct {
	path   string
	query  url.Values
	header http.Header
}

type fakeKakao struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeKakao) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{path: r.URL.Path, query: r.URL.Query(), header: r.Header.Clone()})
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeKakao) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestKakao(t *testing.T, fake *fakeKakao) *KakaoClient {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewKakaoClient(KakaoConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Limiter: ratelimit.New(0),
	}, zerolog.Nop())
}

func TestKakaoGeocode(t *testing.T) {
	fake := &fakeKakao{body: `{"documents":[{"address_name":"부산 동래구 온천동 871-95","x":"129.0837","y":"35.2055"},{"address_name":"other","x":"1","y":"2"}]}`}
	client := newTestKakao(t, fake)

	coords, ok := client.Geocode(context.Background(), "부산광역시 동래구 온천동 871-95")
	require.True(t, ok)
	assert.InDelta(t, 35.2055, coords.Lat, 1e-9)
	assert.InDelta(t, 129.0837, coords.Lng, 1e-9)
	assert.Equal(t, "부산 동래구 온천동 871-95", coords.AddressName)

	require.Len(t, fake.recorded(), 1)
	req := fake.recorded()[0]
	assert.Equal(t, kakaoAddressPath, req.path)
	assert.Equal(t, "부산광역시 동래구 온천동 871-95", req.query.Get("query"))
	assert.Equal(t, "KakaoAK test-key", req.header.Get("Authorization"))
}

func TestKakaoGeocodeAbsorbsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "empty documents", body: `{"documents":[]}`},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
		{name: "malformed payload", body: `{"documents":`},
		{name: "malformed coordinates", body: `{"documents":[{"address_name":"x","x":"abc","y":"1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestKakao(t, &fakeKakao{status: tt.status, body: tt.body})
			_, ok := client.Geocode(context.Background(), "부산광역시 동래구 온천동")
			assert.False(t, ok)
		})
	}
}

func TestKakaoGeocodeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewKakaoClient(KakaoConfig{APIKey: "k", BaseURL: baseURL, Limiter: ratelimit.New(0)}, zerolog.Nop())
	_, ok := client.Geocode(context.Background(), "부산광역시 동래구 온천동")
	assert.False(t, ok)
	assert.Empty(t, client.SearchKeyword(context.Background(), KeywordQuery{Query: "카페"}))
}

func TestKakaoSearchKeywordNear(t *testing.T) {
	fake := &fakeKakao{body: `{"documents":[
		{"place_name":" 온천식당 ","phone":" 051-111-2222 ","address_name":"부산 동래구 온천동 871-95","road_address_name":"부산 동래구 금강공원로 1","category_name":"음식점 > 한식"},
		{"place_name":"무명","phone":"","address_name":"부산 동래구 온천동 1","road_address_name":"","category_name":"음식점"}
	]}`}
	client := newTestKakao(t, fake)

	pois := client.SearchKeyword(context.Background(), KeywordQuery{
		Query:        "음식점",
		Near:         &model.Coordinates{Lat: 35.2055, Lng: 129.0837},
		RadiusMeters: 500,
		Size:         15,
	})

	require.Len(t, pois, 2)
	assert.Equal(t, model.POI{
		Name:        "온천식당",
		Phone:       "051-111-2222",
		Address:     "부산 동래구 온천동 871-95",
		RoadAddress: "부산 동래구 금강공원로 1",
		Category:    "음식점 > 한식",
	}, pois[0])
	assert.Equal(t, "무명", pois[1].Name)

	req := fake.recorded()[0]
	assert.Equal(t, kakaoKeywordPath, req.path)
	assert.Equal(t, "음식점", req.query.Get("query"))
	assert.Equal(t, "129.0837", req.query.Get("x"))
	assert.Equal(t, "35.2055", req.query.Get("y"))
	assert.Equal(t, "500", req.query.Get("radius"))
	assert.Equal(t, "15", req.query.Get("size"))
}

func TestKakaoSearchKeywordPlain(t *testing.T) {
	fake := &fakeKakao{body: `{"documents":[]}`}
	client := newTestKakao(t, fake)

	pois := client.SearchKeyword(context.Background(), KeywordQuery{Query: "부산광역시 동래구 온천동 카페", Size: 40})
	assert.Empty(t, pois)

	req := fake.recorded()[0]
	assert.Empty(t, req.query.Get("x"))
	assert.Empty(t, req.query.Get("radius"))
	assert.Equal(t, "15", req.query.Get("size"))
}

func TestKakaoVerify(t *testing.T) {
	client := newTestKakao(t, &fakeKakao{status: http.StatusUnauthorized, body: `{}`})
	assert.ErrorIs(t, client.Verify(context.Background()), ErrUnauthorized)

	client = newTestKakao(t, &fakeKakao{body: `{"documents":[]}`})
	assert.NoError(t, client.Verify(context.Background()))
}

func TestKakaoThrottlePause(t *testing.T) {
	server := httptest.NewServer(&fakeKakao{status: http.StatusTooManyRequests, body: `{}`})
	t.Cleanup(server.Close)
	client := NewKakaoClient(KakaoConfig{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Limiter:       ratelimit.New(0),
		ThrottlePause: 40 * time.Millisecond,
	}, zerolog.Nop())

	start := time.Now()
	assert.Empty(t, client.SearchKeyword(context.Background(), KeywordQuery{Query: "카페"}))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
