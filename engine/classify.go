package engine

import (
	"time"

	"github.com/gael-paolo/st-parts-track/model"
)

// Variant names one of the rule sets the business has used over time.
// Refined is the current one; the older two stay available for deployments
// still reconciled against the earlier sheets.
type Variant string

const (
	VariantClassic  Variant = "classic"
	VariantExtended Variant = "extended"
	VariantRefined  Variant = "refined"
)

// ParseVariant maps a config string to a variant, defaulting to refined.
func ParseVariant(s string) Variant {
	switch Variant(s) {
	case VariantClassic, VariantExtended:
		return Variant(s)
	default:
		return VariantRefined
	}
}

// Rule is one entry of an ordered decision list: the first rule whose Match
// returns true supplies the label.
type Rule struct {
	Match func(line model.OrderLine, now time.Time) bool
	Label string
}

func cancelled(codes ...string) func(model.OrderLine, time.Time) bool {
	return func(line model.OrderLine, _ time.Time) bool {
		for _, code := range codes {
			if line.StatusCode == code {
				return true
			}
		}
		return false
	}
}

func backOrdered(line model.OrderLine, _ time.Time) bool {
	return !line.HasInvoice() && line.StatusCode == "B/O"
}

func arrived(line model.OrderLine, _ time.Time) bool {
	return line.HasArrived()
}

func inTransit(line model.OrderLine, _ time.Time) bool {
	return !line.HasArrived() && line.HasInvoice()
}

func etaExpired(line model.OrderLine, now time.Time) bool {
	return !line.HasArrived() && line.ETADate != nil && line.ETADate.Before(now)
}

func delayed(line model.OrderLine, now time.Time) bool {
	return etaExpired(line, now) && line.HasInvoice()
}

func unattended(line model.OrderLine, now time.Time) bool {
	return etaExpired(line, now) && !line.HasInvoice()
}

// Rules returns the ordered rule table for a variant. Ordering encodes
// business priority: a cancelled line is reported as such whatever its
// dates say, and a recorded arrival is authoritative over any delay
// inference.
func Rules(v Variant) []Rule {
	switch v {
	case VariantClassic:
		// Original table: only "C" cancels, and the in-transit rule
		// precedes the delay rule, which it shadows.
		return []Rule{
			{cancelled("C"), model.LabelCancelled},
			{backOrdered, model.LabelBackOrder},
			{arrived, model.LabelArrived},
			{inTransit, model.LabelInTransit},
			{delayed, model.LabelDelayed},
		}
	case VariantExtended:
		// Adds "U" and promotes the delay rule above in-transit.
		return []Rule{
			{cancelled("C", "U"), model.LabelCancelled},
			{delayed, model.LabelDelayed},
			{backOrdered, model.LabelBackOrder},
			{arrived, model.LabelArrived},
			{inTransit, model.LabelInTransit},
		}
	default:
		return []Rule{
			{cancelled("C", "U"), model.LabelCancelled},
			{unattended, model.LabelUnattended},
			{delayed, model.LabelDelayed},
			{backOrdered, model.LabelBackOrder},
			{arrived, model.LabelArrived},
			{inTransit, model.LabelInTransit},
		}
	}
}

// ClassifyVariant assigns exactly one status label to a line under the given
// variant. now is injected so classification is deterministic under test.
func ClassifyVariant(v Variant, line model.OrderLine, now time.Time) string {
	for _, rule := range Rules(v) {
		if rule.Match(line, now) {
			return rule.Label
		}
	}
	return model.LabelInsufficient
}

// Classify assigns a status label under the refined rule set.
func Classify(line model.OrderLine, now time.Time) string {
	return ClassifyVariant(VariantRefined, line, now)
}

// ClassifyAll classifies a batch of lines, in input order.
func ClassifyAll(v Variant, lines []model.OrderLine, now time.Time) []model.AnalysisResult {
	results := make([]model.AnalysisResult, len(lines))
	for i, line := range lines {
		results[i] = model.AnalysisResult{
			OrderLine:   line,
			StatusLabel: ClassifyVariant(v, line, now),
		}
	}
	return results
}
