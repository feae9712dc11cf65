package contact

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/address"
	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/provider"
)

type PipelineConfig struct {
	// ProbeKeyword is the category searched around geocoded coordinates.
	ProbeKeyword string
	RadiusMeters int
	NearbySize   int
	// FallbackKeywords are tried in order once the nearby search fails.
	FallbackKeywords []string
	FallbackSize     int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ProbeKeyword:     "음식점",
		RadiusMeters:     500,
		NearbySize:       15,
		FallbackKeywords: []string{"음식점", "카페", "병원", "편의점", "마트"},
		FallbackSize:     15,
	}
}

// Pipeline resolves an address in four stages, first success wins:
// geocode, nearby search filtered by address similarity, keyword cascade,
// and finally ErrNotFound.
type Pipeline struct {
	geocoder provider.Geocoder
	searcher provider.KeywordSearcher
	cfg      PipelineConfig
	log      zerolog.Logger
}

func NewPipeline(geocoder provider.Geocoder, searcher provider.KeywordSearcher, cfg PipelineConfig, log zerolog.Logger) *Pipeline {
	cfg.FallbackKeywords = copyKeywords(cfg.FallbackKeywords)
	return &Pipeline{
		geocoder: geocoder,
		searcher: searcher,
		cfg:      cfg,
		log:      log.With().Str("component", "contact_pipeline").Logger(),
	}
}

// FallbackKeywords returns a copy of the stage-3 keyword order.
func (p *Pipeline) FallbackKeywords() []string {
	return append([]string(nil), p.cfg.FallbackKeywords...)
}

func (p *Pipeline) Resolve(ctx context.Context, fullAddress string) (model.ContactResult, error) {
	logger := p.log.With().Str("address", fullAddress).Logger()

	if coords, ok := p.geocoder.Geocode(ctx, fullAddress); ok {
		if result, found := p.searchNearby(ctx, fullAddress, coords); found {
			logger.Debug().Str("place", result.PlaceName).Msg("resolved by nearby search")
			return result, nil
		}
		logger.Debug().Msg("nearby search found no similar place")
	} else {
		logger.Debug().Msg("geocode returned nothing, skipping nearby search")
	}

	if result, found := p.searchKeywords(ctx, fullAddress); found {
		logger.Debug().Str("place", result.PlaceName).Str("query", result.SearchQuery).Msg("resolved by keyword fallback")
		return result, nil
	}

	return model.ContactResult{}, fmt.Errorf("%w: %s", ErrNotFound, fullAddress)
}

func (p *Pipeline) searchNearby(ctx context.Context, fullAddress string, coords model.Coordinates) (model.ContactResult, bool) {
	pois := p.searcher.SearchKeyword(ctx, provider.KeywordQuery{
		Query:        p.cfg.ProbeKeyword,
		Near:         &coords,
		RadiusMeters: p.cfg.RadiusMeters,
		Size:         p.cfg.NearbySize,
	})
	for _, poi := range pois {
		if poi.Phone != "" && address.IsSimilar(fullAddress, poi.Address) {
			return model.NewContactResult(poi, model.MatchTypeExactLocation), true
		}
	}
	return model.ContactResult{}, false
}

func (p *Pipeline) searchKeywords(ctx context.Context, fullAddress string) (model.ContactResult, bool) {
	for _, keyword := range p.cfg.FallbackKeywords {
		query := fullAddress + " " + keyword
		pois := p.searcher.SearchKeyword(ctx, provider.KeywordQuery{Query: query, Size: p.cfg.FallbackSize})
		if poi, ok := firstWithPhone(pois); ok {
			result := model.NewContactResult(poi, model.MatchTypeNearbySearch)
			result.SearchQuery = query
			return result, true
		}
	}
	return model.ContactResult{}, false
}
