package engine

import (
	"sort"
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gael-paolo/st-parts-track/model"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold canonicalizes text for similarity comparison: trim, lowercase, strip
// diacritics (so "García" and "garcia" compare equal).
func Fold(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

type candidate struct {
	value string
	score int
}

// FilterSimilar returns the records whose field value is similar enough to
// query. Scoring is token-order-insensitive in [0,100]; limit caps the number
// of distinct matching field values, not the number of returned rows. An
// empty result is a valid answer, never an error.
func FilterSimilar(records []model.AnalysisResult, field, query string, limit, threshold int) []model.AnalysisResult {
	out := []model.AnalysisResult{}
	q := Fold(query)
	if q == "" || limit <= 0 {
		return out
	}

	// Score each distinct folded value once.
	seen := map[string]bool{}
	candidates := []candidate{}
	for _, r := range records {
		v := Fold(fieldValue(r, field))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		score := fuzzy.TokenSortRatio(q, v)
		if score >= threshold {
			candidates = append(candidates, candidate{value: v, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].value < candidates[j].value
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	kept := map[string]bool{}
	for _, c := range candidates {
		kept[c.value] = true
	}

	for _, r := range records {
		if kept[Fold(fieldValue(r, field))] {
			out = append(out, r)
		}
	}
	return out
}

func fieldValue(r model.AnalysisResult, field string) string {
	switch field {
	case "reference":
		return r.Reference
	default:
		return r.Client
	}
}
