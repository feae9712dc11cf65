// Package contact resolves an address or business name to a place with a
// phone number using ordered, deterministic provider fallbacks.
package contact

import (
	"context"
	"errors"

	"github.com/conon21154/lineguide/internal/model"
)

// ErrNotFound is returned once every fallback tier has been exhausted.
var ErrNotFound = errors.New("contact not found")

type Resolver interface {
	Resolve(ctx context.Context, address string) (model.ContactResult, error)
}

func firstWithPhone(pois []model.POI) (model.POI, bool) {
	for _, poi := range pois {
		if poi.Phone != "" {
			return poi, true
		}
	}
	return model.POI{}, false
}

func copyKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword != "" {
			out = append(out, keyword)
		}
	}
	return out
}
