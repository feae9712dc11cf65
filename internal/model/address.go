package model

import "strings"

type AddressStatus string

const (
	AddressStatusPending AddressStatus = "pending"
	AddressStatusSuccess AddressStatus = "success"
	AddressStatusFailed  AddressStatus = "failed"
)

type AddressRecord struct {
	ID                int           `json:"id"`
	City              string        `json:"city"`
	District          string        `json:"district"`
	Neighborhood      string        `json:"neighborhood"`
	Lot               string        `json:"lot"`
	ExtraInfo         string        `json:"extra_info"`
	FullAddress       string        `json:"full_address"`
	Status            AddressStatus `json:"status"`
	ResolvedPlaceName string        `json:"resolved_place_name"`
	ResolvedPhone     string        `json:"resolved_phone"`
	Category          string        `json:"category"`
	MatchType         MatchType     `json:"match_type"`
	Error             string        `json:"error"`
}

// AddressRow is one raw input row before it becomes a record.
type AddressRow struct {
	City         string `json:"city"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	Lot          string `json:"lot"`
	Extra        string `json:"extra"`
}

// NewAddressRecord builds a pending record from a raw row. It reports false
// when city, district or neighborhood is missing; such rows are never resolved.
func NewAddressRecord(id int, row AddressRow) (AddressRecord, bool) {
	city := strings.TrimSpace(row.City)
	district := strings.TrimSpace(row.District)
	neighborhood := strings.TrimSpace(row.Neighborhood)
	lot := strings.TrimSpace(row.Lot)
	if city == "" || district == "" || neighborhood == "" {
		return AddressRecord{}, false
	}

	full := city + " " + district + " " + neighborhood
	if lot != "" {
		full += " " + lot
	}

	return AddressRecord{
		ID:           id,
		City:         city,
		District:     district,
		Neighborhood: neighborhood,
		Lot:          lot,
		ExtraInfo:    strings.TrimSpace(row.Extra),
		FullAddress:  full,
		Status:       AddressStatusPending,
		MatchType:    MatchTypeNone,
	}, true
}

// ApplyContact marks the record resolved with the given contact.
func (r *AddressRecord) ApplyContact(result ContactResult) {
	r.Status = AddressStatusSuccess
	r.ResolvedPlaceName = result.PlaceName
	r.ResolvedPhone = result.Phone
	r.Category = result.Category
	r.MatchType = result.MatchType
	r.Error = ""
}

// ApplyError marks the record failed. Any previously resolved contact is cleared.
func (r *AddressRecord) ApplyError(err error) {
	r.Status = AddressStatusFailed
	r.ResolvedPlaceName = ""
	r.ResolvedPhone = ""
	r.Category = ""
	r.MatchType = MatchTypeNone
	r.Error = err.Error()
}
