package address

import "strings"

var compactReplacer = strings.NewReplacer(" ", "", "-", "")

// IsSimilar reports whether the first three tokens of either address, with
// spaces and dashes removed, occur inside the other compacted address.
//
// The check is coarse: it accepts different buildings in the same
// neighborhood and rejects reordered tokens.
func IsSimilar(a, b string) bool {
	return strings.Contains(compact(b), leadKey(a)) || strings.Contains(compact(a), leadKey(b))
}

func leadKey(addr string) string {
	tokens := strings.Fields(addr)
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return compact(strings.Join(tokens, ""))
}

func compact(addr string) string {
	return compactReplacer.Replace(strings.Join(strings.Fields(addr), ""))
}
