package equipment

import (
	"github.com/conon21154/lineguide/internal/address"
	"github.com/conon21154/lineguide/internal/model"
)

// Match looks up the equipment count for a resolved address.
//
// Exact hits on (district, neighborhood, lot) are summed. Otherwise only the
// first row sharing (district, neighborhood) counts, so neighbouring
// buildings never inflate the total.
func Match(resolvedAddress string, table *Table) model.EquipmentMatch {
	key, err := address.ParseKey(resolvedAddress)
	if err != nil {
		return model.EquipmentMatch{Method: model.EquipmentMatchIncompleteKey}
	}
	if table == nil {
		return model.EquipmentMatch{Method: model.EquipmentMatchNone}
	}

	if key.Lot != "" {
		sum, hits := 0, 0
		for _, e := range table.entries {
			if e.key.ExactEqual(key) {
				sum += e.record.EquipmentCount
				hits++
			}
		}
		if hits > 0 {
			return model.EquipmentMatch{Count: sum, Known: true, Method: model.EquipmentMatchExact}
		}
	}

	for _, e := range table.entries {
		if e.key.PartialEqual(key) {
			return model.EquipmentMatch{Count: e.record.EquipmentCount, Known: true, Method: model.EquipmentMatchPartialFirst}
		}
	}

	return model.EquipmentMatch{Method: model.EquipmentMatchNone}
}
