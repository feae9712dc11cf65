package model

type Coordinates struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	AddressName string  `json:"address_name"`
}

// POI is the provider-neutral place record every provider adapter maps into.
type POI struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	RoadAddress string `json:"road_address"`
	Category    string `json:"category"`
}

// PrimaryAddress prefers the lot-based address and falls back to the road address.
func (p POI) PrimaryAddress() string {
	if p.Address != "" {
		return p.Address
	}
	return p.RoadAddress
}
