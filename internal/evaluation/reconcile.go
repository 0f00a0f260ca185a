package evaluation

import (
	"fmt"
	"math"
)

// Reconciliation methods.
const (
	MethodWeightedAverage = "weighted_average"
	MethodCriteriaAverage = "criteria_average"
)

// DefaultConsistencyThreshold is the maximum allowed gap between a reported
// aggregate score and the criteria average before the reported value is
// discarded.
const DefaultConsistencyThreshold = 2.0

// Reconciliation is the outcome of merging per-criterion scores with the
// model's self-reported aggregate.
type Reconciliation struct {
	// Total is the final score on the 0-10 scale, rounded to one decimal.
	Total float64

	// CriteriaAverage is the mean of the per-criterion scores, rounded to
	// one decimal.
	CriteriaAverage float64

	// Reported is the model's aggregate score when one was parsed.
	Reported *float64

	// Method names how Total was derived.
	Method string

	// Warning is non-empty when reconciliation found an inconsistency.
	Warning string
}

// Reconcile merges per-criterion scores with an optional reported aggregate.
// A reported score within threshold of the criteria average is blended with
// it; a deviating or absent reported score is replaced by the criteria
// average. All-zero criteria always force a zero total. The function is
// pure: equal inputs yield equal outputs.
func Reconcile(criteria []int, reported *float64, threshold float64) Reconciliation {
	r := Reconciliation{Reported: reported}

	var sum int
	allZero := true
	for _, c := range criteria {
		sum += c
		if c != 0 {
			allZero = false
		}
	}
	calculated := 0.0
	if len(criteria) > 0 {
		calculated = float64(sum) / float64(len(criteria))
	}
	r.CriteriaAverage = round1(calculated)

	switch {
	case reported == nil:
		r.Total = calculated
		r.Method = MethodCriteriaAverage
	case math.Abs(*reported-calculated) > threshold:
		r.Total = calculated
		r.Method = MethodCriteriaAverage
		r.Warning = fmt.Sprintf(
			"reported score %.1f deviates from criteria average %.1f by more than %.1f; using criteria average",
			*reported, calculated, threshold)
	default:
		r.Total = (*reported + calculated) / 2
		r.Method = MethodWeightedAverage
	}

	if allZero && r.Total != 0 {
		r.Warning = fmt.Sprintf(
			"all criteria scored zero but total was %.1f; forcing total to zero", r.Total)
		r.Total = 0
	}

	r.Total = round1(r.Total)
	return r
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
