package taxonomy

import "fmt"

// Level is one of the six ordered cognitive-demand categories used to plan
// question difficulty progression.
type Level string

const (
	Remember   Level = "remember"
	Understand Level = "understand"
	Apply      Level = "apply"
	Analyze    Level = "analyze"
	Evaluate   Level = "evaluate"
	Create     Level = "create"
)

// Sequence is the fixed traversal order of levels within an exam.
var Sequence = []Level{Remember, Understand, Apply, Analyze, Evaluate, Create}

// priorityLevels are the mid-complexity levels that absorb rounding
// corrections when distributing questions.
var priorityLevels = []Level{Understand, Apply, Analyze}

// LevelInfo describes one taxonomy level.
type LevelInfo struct {
	// Name is the human-readable display name.
	Name string

	// Description summarizes the cognitive demand of the level.
	Description string

	// Verbs are action verbs characteristic of this level, used in the
	// plan-building prompt.
	Verbs []string

	// QuestionStems are example question openings for this level.
	QuestionStems []string

	// Weight is the fixed share of the exam allotted to this level.
	// Weights across all levels sum to 1.0.
	Weight float64

	// EstimatedMinutes is the rough per-question answering time, used
	// only for duration estimates.
	EstimatedMinutes int
}

var levelInfo = map[Level]LevelInfo{
	Remember: {
		Name:             "Remembering",
		Description:      "Retrieving knowledge from long-term memory",
		Verbs:            []string{"define", "name", "list", "describe", "recognize", "recall"},
		QuestionStems:    []string{"What is...?", "Name the...", "List the...", "Define..."},
		Weight:           0.15,
		EstimatedMinutes: 3,
	},
	Understand: {
		Name:             "Understanding",
		Description:      "Grasping the meaning of material",
		Verbs:            []string{"explain", "interpret", "compare", "classify", "summarize"},
		QuestionStems:    []string{"Explain...", "Why...?", "What is the difference...?", "Compare..."},
		Weight:           0.25,
		EstimatedMinutes: 5,
	},
	Apply: {
		Name:             "Applying",
		Description:      "Using knowledge in new situations",
		Verbs:            []string{"use", "solve", "show", "demonstrate", "apply"},
		QuestionStems:    []string{"How would you use...?", "Solve...", "Show how..."},
		Weight:           0.25,
		EstimatedMinutes: 8,
	},
	Analyze: {
		Name:             "Analyzing",
		Description:      "Breaking material into parts and finding relationships",
		Verbs:            []string{"analyze", "differentiate", "examine", "compare", "contrast"},
		QuestionStems:    []string{"Analyze...", "What factors...?", "What evidence...?"},
		Weight:           0.20,
		EstimatedMinutes: 10,
	},
	Evaluate: {
		Name:             "Evaluating",
		Description:      "Making judgments based on criteria",
		Verbs:            []string{"assess", "critique", "judge", "justify", "argue"},
		QuestionStems:    []string{"Assess...", "Which is better...?", "Justify...", "Critically evaluate..."},
		Weight:           0.10,
		EstimatedMinutes: 12,
	},
	Create: {
		Name:             "Creating",
		Description:      "Producing a new product or point of view",
		Verbs:            []string{"create", "design", "construct", "plan", "produce"},
		QuestionStems:    []string{"Create...", "Design a plan...", "Propose a solution..."},
		Weight:           0.05,
		EstimatedMinutes: 15,
	},
}

// Info returns the descriptor for a level. The zero LevelInfo is returned
// for unknown levels.
func Info(l Level) LevelInfo {
	return levelInfo[l]
}

// DefaultWeights returns the fixed per-level weights.
func DefaultWeights() map[Level]float64 {
	w := make(map[Level]float64, len(Sequence))
	for _, l := range Sequence {
		w[l] = levelInfo[l].Weight
	}
	return w
}

// TopicLevelFor maps a taxonomy level to the coarse topic difficulty used
// when no plan is active.
func TopicLevelFor(l Level) string {
	switch l {
	case Remember, Understand:
		return "basic"
	case Apply, Analyze:
		return "intermediate"
	case Evaluate, Create:
		return "advanced"
	default:
		return "basic"
	}
}

// Distribute computes an integer question count per level that sums exactly
// to total. Each level gets max(1, round(total*weight)); any mismatch is
// reconciled by ±1 adjustments at the mid-complexity priority levels,
// never reducing a level below 1. Reconciliation terminates in O(levels)
// passes even when total < len(Sequence), which necessarily overshoots.
func Distribute(total int, weights map[Level]float64) (map[Level]int, error) {
	if total < 1 {
		return nil, fmt.Errorf("total questions must be >= 1, got %d", total)
	}
	if len(weights) != len(Sequence) {
		return nil, fmt.Errorf("expected %d level weights, got %d", len(Sequence), len(weights))
	}

	var sum float64
	for _, l := range Sequence {
		w, ok := weights[l]
		if !ok {
			return nil, fmt.Errorf("missing weight for level %q", l)
		}
		if w <= 0 {
			return nil, fmt.Errorf("weight for level %q must be positive, got %v", l, w)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return nil, fmt.Errorf("level weights must sum to 1.0, got %v", sum)
	}

	counts := make(map[Level]int, len(Sequence))
	for _, l := range Sequence {
		c := int(float64(total)*weights[l] + 0.5)
		if c < 1 {
			c = 1
		}
		counts[l] = c
	}

	// Reconcile the rounded sum against the requested total at the
	// priority levels.
	current := 0
	for _, c := range counts {
		current += c
	}
	diff := total - current
	for diff != 0 {
		adjusted := false
		for _, l := range priorityLevels {
			if diff == 0 {
				break
			}
			if diff > 0 {
				counts[l]++
				diff--
				adjusted = true
			} else if counts[l] > 1 {
				counts[l]--
				diff++
				adjusted = true
			}
		}
		// Every level already at its floor of 1: the overshoot cannot
		// be reconciled further (total < number of levels). Designed
		// edge case, not an error.
		if !adjusted {
			break
		}
	}

	return counts, nil
}
