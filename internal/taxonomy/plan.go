package taxonomy

import (
	"fmt"
	"time"
)

// Guidance holds the per-level question-formulation guidelines produced when
// building a plan.
type Guidance struct {
	Level         Level
	QuestionCount int

	FormulationPrinciples  string
	MandatoryElements      string
	ThematicDirections     string
	ComplexityLevel        string
	ContextualRequirements string
	QualityCriteria        string
	Avoid                  string

	// Raw is the full guideline text as returned by the model.
	Raw string
}

// Plan fixes the per-level question distribution and formulation guidance
// for one exam.
type Plan struct {
	Subject        string
	TopicContext   string
	Difficulty     string
	TotalQuestions int

	// Distribution maps each level to its question count.
	Distribution map[Level]int

	// Overview is the model's structural analysis of the subject across
	// all levels.
	Overview string

	// Guidance holds per-level formulation guidelines, keyed by level.
	// Levels with a zero count carry no guidance.
	Guidance map[Level]Guidance

	CreatedAt time.Time
}

// LevelForIndex returns the level governing the question at the given
// zero-based index, walking Sequence in order through the distribution.
// ok is false when the index lies past the planned total.
func (p *Plan) LevelForIndex(i int) (Level, bool) {
	if i < 0 {
		return "", false
	}
	cum := 0
	for _, l := range Sequence {
		cum += p.Distribution[l]
		if i < cum {
			return l, true
		}
	}
	return "", false
}

// GuidanceForIndex returns the guidance for the question at the given
// zero-based index, or ok=false when the plan is exhausted or no guidance
// exists for the level.
func (p *Plan) GuidanceForIndex(i int) (Guidance, bool) {
	l, ok := p.LevelForIndex(i)
	if !ok {
		return Guidance{}, false
	}
	g, ok := p.Guidance[l]
	return g, ok
}

// Coverage reports the share of planned questions per level.
func (p *Plan) Coverage() map[Level]float64 {
	cov := make(map[Level]float64, len(p.Distribution))
	if p.TotalQuestions == 0 {
		return cov
	}
	planned := 0
	for _, c := range p.Distribution {
		planned += c
	}
	if planned == 0 {
		return cov
	}
	for l, c := range p.Distribution {
		cov[l] = float64(c) / float64(planned)
	}
	return cov
}

// EstimatedDuration returns the rough exam length in minutes based on
// per-level answering-time estimates.
func (p *Plan) EstimatedDuration() int {
	total := 0
	for l, c := range p.Distribution {
		total += c * Info(l).EstimatedMinutes
	}
	return total
}

// ValidationReport summarizes structural problems found in a plan.
type ValidationReport struct {
	Issues   []string
	Warnings []string
}

// Valid reports whether the plan has no blocking issues.
func (r ValidationReport) Valid() bool { return len(r.Issues) == 0 }

// Validate checks the plan for structural consistency.
func (p *Plan) Validate() ValidationReport {
	var r ValidationReport

	if p.TotalQuestions < 1 {
		r.Issues = append(r.Issues, "plan has no questions")
	}
	planned := 0
	for _, l := range Sequence {
		c := p.Distribution[l]
		if c < 0 {
			r.Issues = append(r.Issues, fmt.Sprintf("level %q has negative count %d", l, c))
		}
		planned += c
	}
	if planned != p.TotalQuestions && p.TotalQuestions >= len(Sequence) {
		r.Issues = append(r.Issues, fmt.Sprintf("distribution sums to %d, expected %d", planned, p.TotalQuestions))
	}
	for _, l := range Sequence {
		if p.Distribution[l] == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("level %q has no questions", l))
		}
		if p.Distribution[l] > 0 {
			if _, ok := p.Guidance[l]; !ok {
				r.Warnings = append(r.Warnings, fmt.Sprintf("level %q has questions but no guidance", l))
			}
		}
	}
	if p.Overview == "" {
		r.Warnings = append(r.Warnings, "plan has no subject overview")
	}
	if p.EstimatedDuration() > 180 {
		r.Warnings = append(r.Warnings, "estimated exam duration exceeds three hours")
	}
	return r
}
