package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/provider"
)

const businessSearchSize = 5

type BusinessLocator interface {
	Locate(ctx context.Context, name string) (model.BusinessContact, error)
}

// RegionLocator looks a business up by name within a fixed list of regions.
// The first place whose address mentions any region wins.
type RegionLocator struct {
	searcher provider.KeywordSearcher
	source   string
	regions  []string
	log      zerolog.Logger
}

// NewRegionLocator tags every hit with source, e.g. the provider name.
func NewRegionLocator(searcher provider.KeywordSearcher, source string, regions []string, log zerolog.Logger) *RegionLocator {
	return &RegionLocator{
		searcher: searcher,
		source:   source,
		regions:  copyKeywords(regions),
		log:      log.With().Str("component", "region_locator").Logger(),
	}
}

func (l *RegionLocator) Locate(ctx context.Context, name string) (model.BusinessContact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BusinessContact{}, fmt.Errorf("%w: empty business name", ErrNotFound)
	}

	for _, region := range l.regions {
		query := name + " " + region
		for _, poi := range l.searcher.SearchKeyword(ctx, provider.KeywordQuery{Query: query, Size: businessSearchSize}) {
			addr := poi.PrimaryAddress()
			if !l.inRegion(addr) {
				continue
			}
			return model.BusinessContact{
				PlaceName: poi.Name,
				Address:   addr,
				Phone:     poi.Phone,
				Source:    fmt.Sprintf("%s(%s)", l.source, query),
			}, nil
		}
	}

	l.log.Debug().Str("name", name).Msg("business not found in any region")
	return model.BusinessContact{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (l *RegionLocator) inRegion(addr string) bool {
	for _, region := range l.regions {
		if strings.Contains(addr, region) {
			return true
		}
	}
	return false
}
