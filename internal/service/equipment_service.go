package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/equipment"
	"github.com/conon21154/lineguide/internal/excel"
	"github.com/conon21154/lineguide/internal/model"
)

type EquipmentService struct {
	store *equipment.Store
	log   zerolog.Logger
}

func NewEquipmentService(store *equipment.Store, log zerolog.Logger) *EquipmentService {
	return &EquipmentService{
		store: store,
		log:   log.With().Str("component", "equipment_service").Logger(),
	}
}

// LoadTable parses an uploaded reference table and publishes it in place of
// the current one. It returns the number of rows loaded.
func (s *EquipmentService) LoadTable(filename string, r io.Reader) (int, error) {
	rows, err := excel.ReadTable(filename, r)
	if err != nil {
		if errors.Is(err, excel.ErrUnsupportedFormat) || errors.Is(err, excel.ErrEmptyTable) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return 0, err
	}

	table, err := equipment.TableFromRows(rows[0], rows[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.store.Replace(table)
	s.log.Info().Str("file", filename).Int("rows", table.Len()).Msg("equipment table replaced")
	return table.Len(), nil
}

func (s *EquipmentService) Match(address string) (model.EquipmentMatch, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.EquipmentMatch{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	table := s.store.Current()
	if table == nil {
		return model.EquipmentMatch{}, ErrNoEquipmentTable
	}
	return equipment.Match(address, table), nil
}
