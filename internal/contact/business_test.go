package contact

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conon21154/lineguide/internal/model"
)

func TestRegionLocator(t *testing.T) {
	searcher := &MockSearcher{Results: map[string][]model.POI{
		"롯데백화점 부산": {
			{Name: "롯데백화점 본점", Phone: "02-771-2500", Address: "서울 중구 소공동 1"},
		},
		"롯데백화점 울산": {
			{Name: "롯데백화점 울산점", Phone: "052-960-2500", RoadAddress: "울산 남구 삼산로 261"},
			{Name: "두번째", Phone: "052-0", Address: "울산 남구 삼산동 1"},
		},
	}}
	locator := NewRegionLocator(searcher, "kakao", []string{"부산", "울산", "경남"}, zerolog.Nop())

	contact, err := locator.Locate(context.Background(), "롯데백화점")
	require.NoError(t, err)
	assert.Equal(t, "롯데백화점 울산점", contact.PlaceName)
	assert.Equal(t, "울산 남구 삼산로 261", contact.Address)
	assert.Equal(t, "052-960-2500", contact.Phone)
	assert.Equal(t, "kakao(롯데백화점 울산)", contact.Source)
	assert.Equal(t, []string{"롯데백화점 부산", "롯데백화점 울산"}, searcher.Queries())
	assert.Equal(t, 5, searcher.Calls[0].Size)
}

func TestRegionLocatorNotFound(t *testing.T) {
	locator := NewRegionLocator(&MockSearcher{}, "kakao", []string{"부산"}, zerolog.Nop())

	_, err := locator.Locate(context.Background(), "없는상호")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = locator.Locate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}
