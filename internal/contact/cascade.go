package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/provider"
)

var neighborhoodKeywords = []string{"맛집", "카페"}

// KeywordCascade resolves with keyword search only, for providers that
// cannot geocode. After the configured keywords it retries the last address
// token alone when that token names a district or neighborhood.
type KeywordCascade struct {
	searcher provider.KeywordSearcher
	keywords []string
	size     int
	log      zerolog.Logger
}

func NewKeywordCascade(searcher provider.KeywordSearcher, keywords []string, size int, log zerolog.Logger) *KeywordCascade {
	return &KeywordCascade{
		searcher: searcher,
		keywords: copyKeywords(keywords),
		size:     size,
		log:      log.With().Str("component", "keyword_cascade").Logger(),
	}
}

func (k *KeywordCascade) Resolve(ctx context.Context, fullAddress string) (model.ContactResult, error) {
	for _, keyword := range k.keywords {
		if result, ok := k.try(ctx, fullAddress, keyword); ok {
			return result, nil
		}
	}

	tokens := strings.Fields(fullAddress)
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if strings.Contains(last, "동") || strings.Contains(last, "구") {
			for _, keyword := range neighborhoodKeywords {
				if result, ok := k.try(ctx, last, keyword); ok {
					k.log.Debug().Str("address", fullAddress).Str("token", last).Msg("resolved by neighborhood token")
					return result, nil
				}
			}
		}
	}

	return model.ContactResult{}, fmt.Errorf("%w: %s", ErrNotFound, fullAddress)
}

func (k *KeywordCascade) try(ctx context.Context, base, keyword string) (model.ContactResult, bool) {
	query := base + " " + keyword
	poi, ok := firstWithPhone(k.searcher.SearchKeyword(ctx, provider.KeywordQuery{Query: query, Size: k.size}))
	if !ok {
		return model.ContactResult{}, false
	}
	result := model.NewContactResult(poi, model.MatchTypeNearbySearch)
	result.SearchQuery = query
	return result, true
}
