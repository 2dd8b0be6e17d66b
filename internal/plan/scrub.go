package plan

import "github.com/alum-office/crmsync-cli/internal/model"

// Scrub returns a copy of a write payload with blank fields removed,
// recursively: empty strings, empty maps and slices, slices containing
// only blanks, and zero fuzzy dates. The CRM rejects writes carrying
// blank fields rather than ignoring them.
func Scrub(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if sv, keep := scrubValue(v); keep {
			out[k] = sv
		}
	}
	return out
}

func scrubValue(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case map[string]any:
		m := Scrub(val)
		return m, len(m) > 0
	case []string:
		var kept []string
		for _, s := range val {
			if s != "" {
				kept = append(kept, s)
			}
		}
		return kept, len(kept) > 0
	case []any:
		var kept []any
		for _, e := range val {
			if se, keep := scrubValue(e); keep {
				kept = append(kept, se)
			}
		}
		return kept, len(kept) > 0
	case model.FuzzyDate:
		return val, !val.IsZero()
	default:
		return val, true
	}
}
