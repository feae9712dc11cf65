package model

type MatchType string

const (
	MatchTypeExactLocation MatchType = "exact_location"
	MatchTypeNearbySearch  MatchType = "nearby_search"
	MatchTypeNone          MatchType = "none"
)

// Confidence orders match types: exact_location > nearby_search > none.
func (m MatchType) Confidence() int {
	switch m {
	case MatchTypeExactLocation:
		return 90
	case MatchTypeNearbySearch:
		return 70
	default:
		return 0
	}
}

type ContactResult struct {
	PlaceName   string    `json:"place_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Category    string    `json:"category"`
	MatchType   MatchType `json:"match_type"`
	Confidence  int       `json:"confidence"`
	SearchQuery string    `json:"search_query,omitempty"`
}

// NewContactResult builds a result from a POI. A none match never keeps a phone.
func NewContactResult(poi POI, matchType MatchType) ContactResult {
	result := ContactResult{
		PlaceName:  poi.Name,
		Phone:      poi.Phone,
		Address:    poi.Address,
		Category:   poi.Category,
		MatchType:  matchType,
		Confidence: matchType.Confidence(),
	}
	if matchType == MatchTypeNone {
		result.Phone = ""
	}
	return result
}

// BusinessContact is the outcome of a business-name lookup.
type BusinessContact struct {
	PlaceName string `json:"place_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Source    string `json:"source"`
}
