package survey

import "fmt"

// MinMatchedPoints is the smallest control set that determines both the
// horizontal similarity transform and the vertical plane.
const MinMatchedPoints = 3

// MatchResult carries the matched pairs plus the identifiers that appeared
// in only one of the two files, for reporting.
type MatchResult struct {
	Pairs      []MatchedPoint
	GlobalOnly []string
	LocalOnly  []string
}

// Match joins the two observation sets by exact identifier equality. Pair
// order follows the global set's input order, which downstream consumers
// rely on (the default projection origin is the first global point). Fewer
// than MinMatchedPoints pairs is an error; unmatched identifiers are not.
func Match(global []GlobalPoint, local []LocalPoint) (MatchResult, error) {
	localByID := make(map[string]LocalPoint, len(local))
	for _, pt := range local {
		localByID[pt.ID] = pt
	}

	var result MatchResult
	matched := make(map[string]bool, len(local))
	for _, g := range global {
		l, ok := localByID[g.ID]
		if !ok {
			result.GlobalOnly = append(result.GlobalOnly, g.ID)
			continue
		}
		matched[g.ID] = true
		result.Pairs = append(result.Pairs, MatchedPoint{ID: g.ID, Global: g, Local: l})
	}
	for _, l := range local {
		if !matched[l.ID] {
			result.LocalOnly = append(result.LocalOnly, l.ID)
		}
	}

	if len(result.Pairs) < MinMatchedPoints {
		return result, fmt.Errorf("need at least %d control points common to both files, found %d",
			MinMatchedPoints, len(result.Pairs))
	}
	return result, nil
}
