package contact

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conon21154/lineguide/internal/model"
)

const testAddress = "부산광역시 동래구 온천동 871-95"

func newTestPipeline(geocoder *MockGeocoder, searcher *MockSearcher) *Pipeline {
	return NewPipeline(geocoder, searcher, DefaultPipelineConfig(), zerolog.Nop())
}

func TestPipelineExactLocation(t *testing.T) {
	geocoder := &MockGeocoder{Found: true, Coords: model.Coordinates{Lat: 35.2, Lng: 129.08}}
	searcher := &MockSearcher{Results: map[string][]model.POI{
		"near:음식점": {
			{Name: "전화없음", Phone: "", Address: testAddress},
			{Name: "옆동네", Phone: "051-000-0000", Address: "부산광역시 해운대구 우동 1"},
			{Name: "온천식당", Phone: "051-111-2222", Address: "부산광역시 동래구 온천동 871-95", Category: "한식"},
			{Name: "두번째", Phone: "051-333-4444", Address: testAddress},
		},
	}}

	result, err := newTestPipeline(geocoder, searcher).Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	assert.Equal(t, "온천식당", result.PlaceName)
	assert.Equal(t, "051-111-2222", result.Phone)
	assert.Equal(t, "한식", result.Category)
	assert.Equal(t, model.MatchTypeExactLocation, result.MatchType)
	assert.Equal(t, 90, result.Confidence)

	require.Len(t, searcher.Calls, 1)
	call := searcher.Calls[0]
	assert.Equal(t, "음식점", call.Query)
	assert.Equal(t, 500, call.RadiusMeters)
	assert.Equal(t, 15, call.Size)
	require.NotNil(t, call.Near)
	assert.Equal(t, 35.2, call.Near.Lat)
}

func TestPipelineNearbyMissFallsBackToSecondKeyword(t *testing.T) {
	geocoder := &MockGeocoder{Found: true}
	searcher := &MockSearcher{Results: map[string][]model.POI{
		"near:음식점": {
			{Name: "다른동", Phone: "051-000-0000", Address: "부산광역시 금정구 장전동 1"},
		},
		testAddress + " 음식점": {
			{Name: "전화없음", Address: testAddress},
		},
		testAddress + " 카페": {
			{Name: "무전화", Phone: ""},
			{Name: "온천카페", Phone: "051-555-6666", Address: "부산광역시 동래구 온천동 10"},
		},
		testAddress + " 병원": {
			{Name: "온천병원", Phone: "051-777-8888"},
		},
	}}

	result, err := newTestPipeline(geocoder, searcher).Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	assert.Equal(t, model.MatchTypeNearbySearch, result.MatchType)
	assert.NotEqual(t, model.MatchTypeExactLocation, result.MatchType)
	assert.Equal(t, "051-555-6666", result.Phone)
	assert.Equal(t, "온천카페", result.PlaceName)
	assert.Equal(t, 70, result.Confidence)
	assert.Equal(t, testAddress+" 카페", result.SearchQuery)

	assert.Equal(t, []string{"음식점", testAddress + " 음식점", testAddress + " 카페"}, searcher.Queries())
}

func TestPipelineGeocodeMissSkipsNearbySearch(t *testing.T) {
	geocoder := &MockGeocoder{Found: false}
	searcher := &MockSearcher{Results: map[string][]model.POI{
		"near:음식점": {
			{Name: "쓰이면안됨", Phone: "051-000-0000", Address: testAddress},
		},
		testAddress + " 음식점": {
			{Name: "온천식당", Phone: "051-111-2222"},
		},
	}}

	result, err := newTestPipeline(geocoder, searcher).Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	assert.Equal(t, model.MatchTypeNearbySearch, result.MatchType)
	assert.Equal(t, "온천식당", result.PlaceName)
	assert.Equal(t, []string{testAddress}, geocoder.Calls)
	for _, call := range searcher.Calls {
		assert.Nil(t, call.Near)
	}
}

func TestPipelineExhausted(t *testing.T) {
	geocoder := &MockGeocoder{Found: true}
	searcher := &MockSearcher{Results: map[string][]model.POI{}}

	result, err := newTestPipeline(geocoder, searcher).Resolve(context.Background(), testAddress)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, result.Phone)

	assert.Equal(t, []string{
		"음식점",
		testAddress + " 음식점",
		testAddress + " 카페",
		testAddress + " 병원",
		testAddress + " 편의점",
		testAddress + " 마트",
	}, searcher.Queries())
}

func TestPipelineKeywordOrderIsFixedAtConstruction(t *testing.T) {
	keywords := []string{"카페", "마트"}
	cfg := DefaultPipelineConfig()
	cfg.FallbackKeywords = keywords

	pipeline := NewPipeline(&MockGeocoder{}, &MockSearcher{}, cfg, zerolog.Nop())
	keywords[0] = "병원"

	got := pipeline.FallbackKeywords()
	assert.Equal(t, []string{"카페", "마트"}, got)

	got[1] = "편의점"
	assert.Equal(t, []string{"카페", "마트"}, pipeline.FallbackKeywords())
}

func TestPipelineIsDeterministic(t *testing.T) {
	results := map[string][]model.POI{
		testAddress + " 음식점": {
			{Name: "A", Phone: "1"},
			{Name: "B", Phone: "2"},
		},
	}

	var first model.ContactResult
	for i := 0; i < 20; i++ {
		result, err := newTestPipeline(&MockGeocoder{}, &MockSearcher{Results: results}).Resolve(context.Background(), testAddress)
		require.NoError(t, err)
		if i == 0 {
			first = result
			continue
		}
		assert.Equal(t, first, result)
	}
	assert.Equal(t, "A", first.PlaceName)
}
