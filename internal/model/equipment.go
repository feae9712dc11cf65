package model

type EquipmentRecord struct {
	Address        string `json:"address"`
	EquipmentCount int    `json:"equipment_count"`
}

// MatchKey is the (district, neighborhood, lot) triple extracted from an address.
type MatchKey struct {
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	Lot          string `json:"lot"`
}

func (k MatchKey) Complete() bool {
	return k.District != "" && k.Neighborhood != ""
}

func (k MatchKey) ExactEqual(other MatchKey) bool {
	return k == other
}

func (k MatchKey) PartialEqual(other MatchKey) bool {
	return k.District == other.District && k.Neighborhood == other.Neighborhood
}

type EquipmentMatchMethod string

const (
	EquipmentMatchExact         EquipmentMatchMethod = "exact"
	EquipmentMatchPartialFirst  EquipmentMatchMethod = "partial-first"
	EquipmentMatchIncompleteKey EquipmentMatchMethod = "incomplete-key"
	EquipmentMatchNone          EquipmentMatchMethod = "no-match"
)

// EquipmentMatch carries a count only when Known is true.
type EquipmentMatch struct {
	Count  int                  `json:"count"`
	Known  bool                 `json:"known"`
	Method EquipmentMatchMethod `json:"method"`
}
