package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeSumsToTotal(t *testing.T) {
	for total := 6; total <= 40; total++ {
		counts, err := Distribute(total, DefaultWeights())
		require.NoError(t, err)

		sum := 0
		for _, l := range Sequence {
			c := counts[l]
			assert.GreaterOrEqual(t, c, 1, "total=%d level=%s", total, l)
			sum += c
		}
		assert.Equal(t, total, sum, "total=%d", total)
	}
}

func TestDistributeSmallTotals(t *testing.T) {
	// Fewer questions than levels: every level keeps its floor of one and
	// the sum overshoots to len(Sequence).
	for total := 1; total < len(Sequence); total++ {
		counts, err := Distribute(total, DefaultWeights())
		require.NoError(t, err)

		sum := 0
		for _, l := range Sequence {
			assert.GreaterOrEqual(t, counts[l], 1)
			sum += counts[l]
		}
		assert.Equal(t, len(Sequence), sum, "total=%d", total)
	}
}

func TestDistributeTenQuestions(t *testing.T) {
	counts, err := Distribute(10, DefaultWeights())
	require.NoError(t, err)

	// Rounding gives 2+3+3+2+1+1 = 12; the two extra questions come off
	// the priority levels understand and apply.
	assert.Equal(t, map[Level]int{
		Remember:   2,
		Understand: 2,
		Apply:      2,
		Analyze:    2,
		Evaluate:   1,
		Create:     1,
	}, counts)
}

func TestDistributeRejectsBadInput(t *testing.T) {
	_, err := Distribute(0, DefaultWeights())
	assert.Error(t, err)

	_, err = Distribute(10, map[Level]float64{Remember: 1.0})
	assert.Error(t, err)

	bad := DefaultWeights()
	bad[Create] = 0.5
	_, err = Distribute(10, bad)
	assert.Error(t, err)
}

func TestLevelForIndexWalksSequence(t *testing.T) {
	p := &Plan{
		TotalQuestions: 10,
		Distribution: map[Level]int{
			Remember: 2, Understand: 2, Apply: 3, Analyze: 2, Evaluate: 1, Create: 0,
		},
	}

	tests := []struct {
		index int
		want  Level
		ok    bool
	}{
		{0, Remember, true},
		{1, Remember, true},
		{2, Understand, true},
		{4, Apply, true},
		{6, Apply, true},
		{7, Analyze, true},
		{9, Evaluate, true},
		{10, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := p.LevelForIndex(tt.index)
		assert.Equal(t, tt.ok, ok, "index %d", tt.index)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestTopicLevelFor(t *testing.T) {
	assert.Equal(t, "basic", TopicLevelFor(Remember))
	assert.Equal(t, "basic", TopicLevelFor(Understand))
	assert.Equal(t, "intermediate", TopicLevelFor(Apply))
	assert.Equal(t, "intermediate", TopicLevelFor(Analyze))
	assert.Equal(t, "advanced", TopicLevelFor(Evaluate))
	assert.Equal(t, "advanced", TopicLevelFor(Create))
}

func TestParseGuidance(t *testing.T) {
	text := `FORMULATION_PRINCIPLES:
Ask for definitions in the student's own words.

MANDATORY_ELEMENTS:
One core term per question.

THEMATIC_DIRECTIONS:
Fundamentals of the subject.

COMPLEXITY_LEVEL:
Recall only.

AVOID:
Multi-part questions.`

	g := parseGuidance(text)
	assert.Equal(t, "Ask for definitions in the student's own words.", g.FormulationPrinciples)
	assert.Equal(t, "One core term per question.", g.MandatoryElements)
	assert.Equal(t, "Fundamentals of the subject.", g.ThematicDirections)
	assert.Equal(t, "Recall only.", g.ComplexityLevel)
	assert.Equal(t, "Multi-part questions.", g.Avoid)
	assert.Empty(t, g.ContextualRequirements)
	assert.Empty(t, g.QualityCriteria)
	assert.NotEmpty(t, g.Raw)
}

func TestPlanValidate(t *testing.T) {
	p := &Plan{
		TotalQuestions: 10,
		Distribution: map[Level]int{
			Remember: 2, Understand: 2, Apply: 2, Analyze: 2, Evaluate: 1, Create: 1,
		},
		Overview: "analysis",
	}
	p.Guidance = map[Level]Guidance{}
	for _, l := range Sequence {
		p.Guidance[l] = Guidance{Level: l}
	}

	r := p.Validate()
	assert.True(t, r.Valid())
	assert.Empty(t, r.Warnings)

	// Distribution no longer sums to the question total.
	p.Distribution[Apply] = 1
	r = p.Validate()
	assert.False(t, r.Valid())
}

func TestPlanValidateWarnsOnLongExam(t *testing.T) {
	p := &Plan{
		TotalQuestions: 30,
		Distribution:   map[Level]int{Create: 30},
		Overview:       "analysis",
		Guidance:       map[Level]Guidance{Create: {Level: Create}},
	}

	r := p.Validate()
	assert.True(t, r.Valid())
	assert.Contains(t, r.Warnings, "estimated exam duration exceeds three hours")
}

func TestPlanEstimatedDuration(t *testing.T) {
	p := &Plan{Distribution: map[Level]int{Remember: 2, Apply: 1}}
	assert.Equal(t, 2*3+1*8, p.EstimatedDuration())
}
