package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/contact"
	"github.com/conon21154/lineguide/internal/equipment"
	"github.com/conon21154/lineguide/internal/model"
)

// OutageService maps outage targets to a business contact and the
// equipment count installed at its address.
type OutageService struct {
	locator contact.BusinessLocator
	store   *equipment.Store
	excel   ExcelGenerator
	log     zerolog.Logger
}

func NewOutageService(locator contact.BusinessLocator, store *equipment.Store, excel ExcelGenerator, log zerolog.Logger) *OutageService {
	return &OutageService{
		locator: locator,
		store:   store,
		excel:   excel,
		log:     log.With().Str("component", "outage_service").Logger(),
	}
}

// MapTargets resolves targets one by one. A failed lookup yields an unknown
// address with method no-match and never stops the batch.
func (s *OutageService) MapTargets(ctx context.Context, targets []model.OutageTarget) ([]model.OutageMapping, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no outage targets", ErrInvalidInput)
	}

	table := s.store.Current()
	mappings := make([]model.OutageMapping, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mappings = append(mappings, s.mapTarget(ctx, target, table))
	}
	return mappings, nil
}

func (s *OutageService) mapTarget(ctx context.Context, target model.OutageTarget, table *equipment.Table) model.OutageMapping {
	target.CustomerName = strings.TrimSpace(target.CustomerName)
	mapping := model.OutageMapping{Target: target, MatchMethod: model.EquipmentMatchNone}

	found, err := s.locator.Locate(ctx, target.CustomerName)
	if err != nil {
		s.log.Debug().Err(err).Str("customer", target.CustomerName).Msg("business lookup failed")
		return mapping
	}
	mapping.Address = found.Address
	mapping.Phone = found.Phone
	mapping.Source = found.Source

	match := equipment.Match(found.Address, table)
	mapping.MatchMethod = match.Method
	if match.Known {
		count := match.Count
		mapping.EquipmentCount = &count
	}
	return mapping
}

func (s *OutageService) Export(ctx context.Context, targets []model.OutageTarget) (*ExportResult, error) {
	mappings, err := s.MapTargets(ctx, targets)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.GenerateOutage(mappings)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: "outage_mapping.xlsx", Content: content}, nil
}
