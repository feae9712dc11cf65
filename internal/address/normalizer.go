// Package address canonicalizes Korean lot-based addresses and extracts the
// (district, neighborhood, lot) key used for reference-table joins.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/conon21154/lineguide/internal/model"
)

var ErrIncompleteAddress = errors.New("district or neighborhood missing")

// Region abbreviations are only expanded when followed by a space so that a
// full name such as 부산광역시 is never touched again.
var regionExpansions = []struct {
	short     string
	full      string
	duplicate string
}{
	{short: "부산 ", full: "부산광역시 ", duplicate: "부산광역시광역시"},
	{short: "울산 ", full: "울산광역시 ", duplicate: "울산광역시광역시"},
	{short: "경남 ", full: "경상남도 ", duplicate: "경상남도상남도"},
}

const word = `[\p{L}\p{M}\p{N}_]`

var (
	keyWithLot = regexp.MustCompile(`(` + word + `+구)\s(` + word + `+동)\s([0-9\-]+)`)
	keyNoLot   = regexp.MustCompile(`(` + word + `+구)\s(` + word + `+동)`)
)

// Normalize trims the address, expands short region names and collapses
// duplicated suffixes. Normalize(Normalize(x)) == Normalize(x).
func Normalize(addr string) string {
	addr = strings.TrimSpace(addr)
	for {
		next := addr
		for _, r := range regionExpansions {
			next = strings.ReplaceAll(next, r.short, r.full)
		}
		for _, r := range regionExpansions {
			next = strings.ReplaceAll(next, r.duplicate, strings.TrimSpace(r.full))
		}
		next = strings.TrimSpace(next)
		if next == addr {
			return addr
		}
		addr = next
	}
}

// ExtractKey normalizes addr and pulls out district, neighborhood and lot.
// A missing lot leaves Lot empty; an unparseable address yields a zero key.
// A trailing "-0" sub-lot is dropped.
func ExtractKey(addr string) model.MatchKey {
	addr = Normalize(addr)

	if m := keyWithLot.FindStringSubmatch(addr); m != nil {
		lot := strings.TrimSuffix(m[3], "-0")
		return model.MatchKey{District: m[1], Neighborhood: m[2], Lot: lot}
	}
	if m := keyNoLot.FindStringSubmatch(addr); m != nil {
		return model.MatchKey{District: m[1], Neighborhood: m[2]}
	}
	return model.MatchKey{}
}

// ParseKey is ExtractKey that fails when district or neighborhood is missing.
func ParseKey(addr string) (model.MatchKey, error) {
	key := ExtractKey(addr)
	if !key.Complete() {
		return key, fmt.Errorf("%w: %q", ErrIncompleteAddress, addr)
	}
	return key, nil
}
