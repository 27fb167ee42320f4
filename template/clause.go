package template

import (
	"regexp"

	"github.com/agnivade/levenshtein"
)

const (
	defaultThreshold = 0.3
	minThreshold     = 0.2
)

// clauseHit is one candidate line's score against a single MatchConfig.
type clauseHit struct {
	line  candidateLine
	score float64
	found bool
}

// evaluateExpression resolves a MatchExpression against the candidate
// lines starting at-or-after fromIdx and before toIdx, returning the best
// hit if any clause matched. sectionThreshold is the enclosing Section's
// own `threshold` attribute (or the package default), used whenever a
// clause doesn't carry its own.
func evaluateExpression(expr MatchExpression, lines []candidateLine, fromIdx, toIdx int, sectionThreshold float64) (clauseHit, bool) {
	switch e := expr.(type) {
	case MatchConfig:
		return evaluateConfig(e, lines, fromIdx, toIdx, sectionThreshold)
	case FunctionCall:
		return evaluateFunctionCall(e, lines, fromIdx, toIdx, sectionThreshold)
	default:
		return clauseHit{}, false
	}
}

func evaluateConfig(cfg MatchConfig, lines []candidateLine, fromIdx, toIdx int, sectionThreshold float64) (clauseHit, bool) {
	threshold := cfg.Threshold
	if cfg.Kind == MatchRegex {
		threshold = 1.0
	} else if threshold == 0 {
		threshold = sectionThreshold
		if threshold == 0 {
			threshold = defaultThreshold
		}
	}
	if threshold < minThreshold {
		threshold = minThreshold
	}

	var best clauseHit
	found := false

	inRange := func(l candidateLine) bool {
		if l.firstIdx < fromIdx {
			return false
		}
		if toIdx >= 0 && l.firstIdx >= toIdx {
			return false
		}
		return true
	}

	switch cfg.Kind {
	case MatchRegex:
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return clauseHit{}, false
		}
		for _, l := range lines {
			if !inRange(l) {
				continue
			}
			if re.MatchString(l.line.Text()) {
				return clauseHit{line: l, score: 1.0, found: true}, true
			}
		}
	default: // MatchText and MatchSemantic (out-of-scope: behaves as Text)
		for _, l := range lines {
			if !inRange(l) {
				continue
			}
			score := normalizedSimilarity(cfg.Pattern, l.line.Text())
			if score < threshold {
				continue
			}
			if !found || score > best.score {
				best = clauseHit{line: l, score: score, found: true}
				found = true
			}
		}
	}
	return best, found
}

func evaluateFunctionCall(fc FunctionCall, lines []candidateLine, fromIdx, toIdx int, sectionThreshold float64) (clauseHit, bool) {
	switch fc.Name {
	case "FirstMatch":
		for _, arg := range fc.Args {
			if hit, ok := evaluateExpression(arg, lines, fromIdx, toIdx, sectionThreshold); ok {
				return hit, true
			}
		}
		return clauseHit{}, false
	case "Optional":
		if len(fc.Args) == 0 {
			return clauseHit{}, true
		}
		hit, ok := evaluateExpression(fc.Args[0], lines, fromIdx, toIdx, sectionThreshold)
		if ok {
			return hit, true
		}
		// Optional succeeds even on no hit: the caller falls back to its
		// own default (e.g. document end for an absent end_match).
		return clauseHit{}, true
	case "Heuristic":
		var hits []clauseHit
		for _, arg := range fc.Args {
			if hit, ok := evaluateExpression(arg, lines, fromIdx, toIdx, sectionThreshold); ok {
				hits = append(hits, hit)
			}
		}
		if len(fc.Args) == 0 || len(hits)*2 < len(fc.Args) {
			return clauseHit{}, false
		}
		best := hits[0]
		for _, h := range hits[1:] {
			if h.score > best.score {
				best = h
			}
		}
		return best, true
	default:
		return clauseHit{}, false
	}
}

func normalizedSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}
