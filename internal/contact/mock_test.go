package contact

import (
	"context"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/provider"
)

type MockGeocoder struct {
	Coords model.Coordinates
	Found  bool
	Calls  []string
}

func (m *MockGeocoder) Geocode(_ context.Context, address string) (model.Coordinates, bool) {
	m.Calls = append(m.Calls, address)
	return m.Coords, m.Found
}

// MockSearcher answers by exact query text; geo-filtered queries are keyed
// as "near:<query>".
type MockSearcher struct {
	Results map[string][]model.POI
	Calls   []provider.KeywordQuery
}

func (m *MockSearcher) SearchKeyword(_ context.Context, query provider.KeywordQuery) []model.POI {
	m.Calls = append(m.Calls, query)
	key := query.Query
	if query.Near != nil {
		key = "near:" + key
	}
	return m.Results[key]
}

func (m *MockSearcher) Queries() []string {
	out := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		out = append(out, call.Query)
	}
	return out
}
