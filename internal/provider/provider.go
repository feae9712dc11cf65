// Package provider adapts external place-search APIs to model.POI.
//
// Clients never surface transport, status or payload failures to callers:
// those are logged and reported as "no result" so the resolution pipeline
// can move on to its next tier.
package provider

import (
	"context"
	"errors"

	"github.com/conon21154/lineguide/internal/model"
)

// ErrUnauthorized is returned by credential checks only.
var ErrUnauthorized = errors.New("provider rejected credentials")

// KeywordQuery describes a keyword search. Near and RadiusMeters are optional
// and ignored by providers without geo filtering.
type KeywordQuery struct {
	Query        string
	Near         *model.Coordinates
	RadiusMeters int
	Size         int
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Coordinates, bool)
}

type KeywordSearcher interface {
	SearchKeyword(ctx context.Context, query KeywordQuery) []model.POI
}
